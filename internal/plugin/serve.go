package plugin

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Handler handles one decoded request inside a plugin executable. The
// returned data, if any, is sent back as Response.Data.
type Handler func(req *Request) (any, error)

// Serve is the plugin side of the protocol: it decodes a Request from r,
// runs h and encodes the Response to w. Failures are reported in the
// response rather than through the exit status.
func Serve(r io.Reader, w io.Writer, h Handler) error {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return writeResponse(w, Response{Error: fmt.Sprintf("decode request: %v", err)})
	}

	data, err := h(&req)
	if err != nil {
		return writeResponse(w, Response{Error: fmt.Sprintf("%s: %v", req.Action, err)})
	}

	resp := Response{Success: true}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return writeResponse(w, Response{Error: fmt.Sprintf("encode data: %v", err)})
		}
		resp.Data = raw
	}
	return writeResponse(w, resp)
}

// ServeStdio runs Serve over the process's stdin and stdout.
func ServeStdio(h Handler) {
	if err := Serve(os.Stdin, os.Stdout, h); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func writeResponse(w io.Writer, resp Response) error {
	return json.NewEncoder(w).Encode(resp)
}
