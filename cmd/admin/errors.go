package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	apperrors "pollos-admin/pkg/errors"
)

// describe flattens validation details into the error text so they reach the
// terminal.
func describe(err error) error {
	typed := apperrors.As(err)
	if typed == nil {
		return err
	}
	details := typed.Details()
	if len(details) == 0 {
		return errors.New(apperrors.PublicMessage(err))
	}
	fields := make([]string, 0, len(details))
	for field := range details {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+details[field])
	}
	return fmt.Errorf("%s (%s)", apperrors.PublicMessage(err), strings.Join(parts, "; "))
}
