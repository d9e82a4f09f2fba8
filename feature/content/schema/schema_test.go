package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *Validator {
	v, err := NewValidator()
	require.NoError(t, err)
	return v
}

func TestValidate_ActionPasses(t *testing.T) {
	v := newValidator(t)

	err := v.Validate([]byte(`{
		"schema_version": 1,
		"systemId": "pf2e",
		"type": "action",
		"slug": "breath-weapon",
		"name": "Breath Weapon",
		"actionType": "two",
		"description": "The dragon breathes fire.",
		"traits": ["fire", "evocation"]
	}`))
	assert.NoError(t, err)
}

func TestValidate_MissingRequiredField(t *testing.T) {
	v := newValidator(t)

	err := v.Validate([]byte(`{
		"schema_version": 1,
		"systemId": "pf2e",
		"type": "action",
		"slug": "breath-weapon",
		"name": "Breath Weapon"
	}`))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.NotEmpty(t, verr.Violations)
	assert.Contains(t, verr.Error(), "actionType")
}

func TestValidate_UnknownField(t *testing.T) {
	v := newValidator(t)

	err := v.Validate([]byte(`{
		"schema_version": 1,
		"systemId": "pf2e",
		"type": "action",
		"slug": "breath-weapon",
		"name": "Breath Weapon",
		"actionType": "two",
		"surprise": true
	}`))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Violations)
}

func TestValidate_BadSlugPattern(t *testing.T) {
	v := newValidator(t)

	err := v.Validate([]byte(`{
		"schema_version": 1,
		"systemId": "pf2e",
		"type": "item",
		"slug": "Potion Of Healing",
		"name": "Potion of Healing",
		"itemType": "consumable",
		"level": 1
	}`))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.NotEmpty(t, verr.Violations)
	assert.Equal(t, "/slug", verr.Violations[0].Path)
}

func TestValidate_UnsupportedVersion(t *testing.T) {
	v := newValidator(t)

	err := v.Validate([]byte(`{"schema_version": 99, "type": "action"}`))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 1)
	assert.Contains(t, verr.Violations[0].Message, "unsupported schema_version")
}

func TestValidate_NotJSON(t *testing.T) {
	v := newValidator(t)

	var verr *ValidationError
	assert.ErrorAs(t, v.Validate([]byte("not json")), &verr)
}
