package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateContext(t *testing.T) {
	assert.NoError(t, validateContext(context.Background()))
	//nolint:staticcheck // Testing nil context handling
	assert.ErrorIs(t, validateContext(nil), ErrNilContext)
}

func TestValidateRecords(t *testing.T) {
	tests := []struct {
		records map[string][]byte
		wantErr error
		name    string
	}{
		{name: "nil map", records: nil, wantErr: ErrNilParameter},
		{name: "empty map", records: map[string][]byte{}, wantErr: ErrEmptySlice},
		{name: "blank key", records: map[string][]byte{" ": []byte(`[]`)}, wantErr: ErrEmptyString},
		{name: "invalid json", records: map[string][]byte{"k": []byte(`[`)}, wantErr: ErrInvalidRecord},
		{name: "valid", records: map[string][]byte{"k": []byte(`{"a":1}`), "n": []byte(`null`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRecords(tt.records)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
