package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{ErrStudentNotFound, KindNotFound},
		{fmt.Errorf("getting student 3: %w", ErrStudentNotFound), KindNotFound},
		{ErrInvalidField, KindValidation},
		{fmt.Errorf("%w: row 4", ErrInvalidImport), KindValidation},
		{fmt.Errorf("%w: GET /nope", ErrUnknownEndpoint), KindUnknownEndpoint},
		{errors.New("disk I/O error"), KindStorage},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Kind(tt.err), "error %v", tt.err)
	}
	assert.Equal(t, "not_found", KindNotFound.String())
}
