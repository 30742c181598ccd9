// Package command decodes verb requests and dispatches them to the
// scheduler, converting every outcome to a status code.
package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/me/pcontainer/pkg/model"
)

// ErrMalformed is returned by Decode when the body is not a verb request.
var ErrMalformed = errors.New("malformed command")

// Command is one verb invocation on behalf of Caller. ContainerID is only
// read by JOIN.
type Command struct {
	Verb        model.Verb
	ContainerID uint64
	Caller      model.CallerID `validate:"required,max=256,printascii"`
}

// Decode reads a JSON verb request from r. The verb name is normalised when
// known and kept verbatim otherwise, so that dispatch can report it as an
// unknown verb rather than a malformed request.
func Decode(r io.Reader, caller model.CallerID) (*Command, error) {
	var raw model.VerbRequest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw.Verb == "" {
		return nil, fmt.Errorf("%w: verb is required", ErrMalformed)
	}

	verb, ok := model.ParseVerb(string(raw.Verb))
	if !ok {
		verb = raw.Verb
	}
	return &Command{Verb: verb, ContainerID: raw.ContainerID, Caller: caller}, nil
}
