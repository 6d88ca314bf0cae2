package serverutils_test

import (
	"testing"

	"dce-cancel-be/internal/dto"
	"dce-cancel-be/internal/pkg/apperror"
	"dce-cancel-be/internal/pkg/serverutils"

	"github.com/stretchr/testify/assert"
)

func TestValidateRequestPasses(t *testing.T) {
	req := &dto.CancelRequest{
		Id:           "DCE123",
		CancelReason: "duplicate submission",
		ClientId:     "partner-123",
	}

	assert.NoError(t, serverutils.ValidateRequest(req))
}

func TestValidateRequestTreatsWhitespaceAsAbsent(t *testing.T) {
	req := &dto.CancelRequest{
		Id:           "  \t ",
		CancelReason: "duplicate submission",
		ClientId:     "partner-123",
	}

	err := serverutils.ValidateRequest(req)

	var verr *apperror.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "id is required")
}

func TestValidateRequestCollectsEveryViolation(t *testing.T) {
	err := serverutils.ValidateRequest(&dto.CancelRequest{})

	var verr *apperror.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 3)
	assert.Contains(t, verr.Violations, "id is required")
	assert.Contains(t, verr.Violations, "cancelReason is required")
	assert.Contains(t, verr.Violations, "clientId is required")
}

func TestViolationsUseWireFieldNames(t *testing.T) {
	err := serverutils.ValidateRequest(&dto.CancelRequest{})

	var verr *apperror.ValidationError
	assert.ErrorAs(t, err, &verr)
	for _, v := range verr.Violations {
		assert.NotContains(t, v, "Id is", "violations must use json names, not Go field names")
		assert.NotContains(t, v, "CancelReason")
		assert.NotContains(t, v, "ClientId")
	}
}
