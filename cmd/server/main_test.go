package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunReturnsStartupErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "unknown store backend",
			env:  map[string]string{"STORE_BACKEND": "cassandra"},
			want: "STORE_BACKEND",
		},
		{
			name: "bad log level",
			env:  map[string]string{"STORE_BACKEND": "memory", "LOG_LEVEL": "loud"},
			want: "failed to initialize logger",
		},
		{
			name: "unknown storage type",
			env:  map[string]string{"STORE_BACKEND": "memory", "FEED_BACKEND": "memory", "STORAGE_TYPE": "bogus"},
			want: "unknown storage type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			err := run()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}
