package store

import (
	"errors"
	"testing"
)

func TestSettingsRepository(t *testing.T) {
	repo := newTestStore(t).Settings()

	if _, err := repo.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := repo.Set("theme", "dark"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := repo.Set("theme", "light"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	if v, err := repo.Get("theme"); err != nil || v != "light" {
		t.Errorf("Get() = %q, %v; want light", v, err)
	}
}

func TestSettingsRepository_Bool(t *testing.T) {
	repo := newTestStore(t).Settings()

	t.Run("default when unset", func(t *testing.T) {
		for _, def := range []bool{true, false} {
			got, err := repo.GetBool(SettingEnabled, def)
			if err != nil || got != def {
				t.Errorf("GetBool(default %v) = %v, %v", def, got, err)
			}
		}
	})

	t.Run("round trip", func(t *testing.T) {
		if err := repo.SetBool(SettingEnabled, true); err != nil {
			t.Fatal(err)
		}
		if got, _ := repo.GetBool(SettingEnabled, false); !got {
			t.Error("GetBool() = false after SetBool(true)")
		}
	})

	t.Run("garbage value", func(t *testing.T) {
		repo.Set("weird", "maybe")
		got, err := repo.GetBool("weird", true)
		if err == nil {
			t.Error("expected parse error")
		}
		if !got {
			t.Error("expected default on parse error")
		}
	})
}
