package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationFailureError(t *testing.T) {
	err := &ValidationFailureError{Message: "validation found 2 problem(s)"}
	assert.Equal(t, "validation found 2 problem(s)", err.Error())
}

func TestErrorTypeDetection(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"ValidationFailureError", &ValidationFailureError{Message: "bad"}, true},
		{"regular error", errors.New("config error"), false},
		{"wrapped ValidationFailureError", fmt.Errorf("validate: %w", &ValidationFailureError{Message: "bad"}), true},
		{"joined ValidationFailureError", errors.Join(&ValidationFailureError{Message: "bad"}, errors.New("more")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var validationErr *ValidationFailureError
			assert.Equal(t, tt.want, errors.As(tt.err, &validationErr))
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"view", "select", "categories", "validate", "serve"})
}
