package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hopefoundation_backend/internals/features/finance/errs"
)

type sizedRequest struct {
	Name  string   `json:"name" validate:"min=3,max=5"`
	Tags  []string `json:"tags" validate:"min=1"`
	Count int      `json:"count" validate:"max=10"`
}

func TestCollectValidation_MessagesFollowFieldKind(t *testing.T) {
	v := errs.NewValidation()
	CollectValidation(&sizedRequest{Name: "ab", Tags: []string{}, Count: 11}, v)

	assert.ElementsMatch(t, []string{
		"name must be at least 3 characters",
		"tags must be at least 1 item",
		"count must be at most 10",
	}, v.Messages)
}

func TestCollectValidation_UsesJSONNames(t *testing.T) {
	type req struct {
		DonorName string `json:"donor_name" validate:"required"`
	}
	v := errs.NewValidation()
	CollectValidation(&req{}, v)
	assert.Equal(t, []string{"donor_name is required"}, v.Messages)
	assert.Error(t, v.OrNil())
}
