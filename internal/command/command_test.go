package command

import (
	"strings"
	"testing"

	"github.com/me/pcontainer/pkg/model"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    *Command
		wantErr bool
	}{
		{"join", `{"verb":"JOIN","container_id":7}`, &Command{Verb: model.VerbJoin, ContainerID: 7, Caller: "a"}, false},
		{"lower case verb", `{"verb":"yield"}`, &Command{Verb: model.VerbYield, Caller: "a"}, false},
		{"max id", `{"verb":"JOIN","container_id":18446744073709551615}`, &Command{Verb: model.VerbJoin, ContainerID: ^uint64(0), Caller: "a"}, false},
		{"unknown verb kept", `{"verb":"SPAWN"}`, &Command{Verb: "SPAWN", Caller: "a"}, false},
		{"missing verb", `{"container_id":1}`, nil, true},
		{"negative id", `{"verb":"JOIN","container_id":-1}`, nil, true},
		{"unknown field", `{"verb":"JOIN","pid":3}`, nil, true},
		{"not json", `JOIN 1`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			got, err := Decode(strings.NewReader(tt.body), "a")
			if tt.wantErr {
				req.ErrorIs(err, ErrMalformed)
				return
			}
			req.NoError(err)
			req.Equal(tt.want, got)
		})
	}
}
