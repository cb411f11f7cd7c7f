package validate_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ardanlabs/powledger/business/sys/validate"
)

func Test_Check(t *testing.T) {
	type request struct {
		Account string `json:"account" validate:"required"`
		Amount  uint64 `json:"amount" validate:"gt=0"`
	}

	if err := validate.Check(request{Account: "bill", Amount: 1}); err != nil {
		t.Fatalf("Should accept a complete request: %s", err)
	}

	err := validate.Check(request{})
	if !validate.IsFieldErrors(err) {
		t.Fatalf("Should get field errors, got %T.", err)
	}

	fields := validate.GetFieldErrors(fmt.Errorf("wrapped: %w", err)).Fields()
	if fields["account"] != "account is a required field" {
		t.Fatalf("Should translate the required tag, got %q.", fields["account"])
	}
	if fields["amount"] == "" {
		t.Fatalf("Should report the amount field: %v", fields)
	}

	fe := validate.NewFieldsError("sender", errors.New("not a public key"))
	if validate.GetFieldErrors(fe).Fields()["sender"] != "not a public key" {
		t.Fatalf("Should construct a single field error.")
	}
}
