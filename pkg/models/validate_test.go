package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validClientInput() *ClientInput {
	return &ClientInput{
		Name:     "Acme Contact",
		Email:    "contact@acme.example",
		Company:  "Acme Corp",
		Status:   "active",
		Priority: "high",
	}
}

func TestValidateClientInput_Valid(t *testing.T) {
	errs := ValidateClientInput(validClientInput())
	assert.Nil(t, errs)
}

func TestValidateClientInput_MissingRequired(t *testing.T) {
	errs := ValidateClientInput(&ClientInput{})
	require.NotNil(t, errs)

	fields := map[string]bool{}
	for _, fe := range errs {
		fields[fe.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["email"])
	assert.True(t, fields["company"])
}

func TestValidateClientInput_BadEnums(t *testing.T) {
	in := validClientInput()
	in.Status = "vip"
	in.Priority = "urgent"

	errs := ValidateClientInput(in)
	require.Len(t, errs, 2)
	assert.Equal(t, "status", errs[0].Field)
	assert.Equal(t, "priority", errs[1].Field)
}

func TestValidateClientInput_EmptyEnumsUseDefaults(t *testing.T) {
	in := validClientInput()
	in.Status = ""
	in.Priority = ""

	assert.Nil(t, ValidateClientInput(in))
}

func TestValidateClientInput_BadEmail(t *testing.T) {
	in := validClientInput()
	in.Email = "not-an-email"

	errs := ValidateClientInput(in)
	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)
}

func validInteractionInput() *InteractionInput {
	return &InteractionInput{
		ClientID: "c-1",
		Type:     "call",
		Subject:  "Quarterly review",
		Outcome:  "positive",
	}
}

func TestValidateInteractionInput_Valid(t *testing.T) {
	errs := ValidateInteractionInput(validInteractionInput(), time.Now())
	assert.Nil(t, errs)
}

func TestValidateInteractionInput_MissingClientAndType(t *testing.T) {
	errs := ValidateInteractionInput(&InteractionInput{Subject: "x"}, time.Now())
	require.NotNil(t, errs)

	fields := map[string]bool{}
	for _, fe := range errs {
		fields[fe.Field] = true
	}
	assert.True(t, fields["clientId"])
	assert.True(t, fields["type"])
}

func TestValidateInteractionInput_SubjectTooLong(t *testing.T) {
	in := validInteractionInput()
	long := make([]byte, MaxSubjectLen+1)
	for i := range long {
		long[i] = 'a'
	}
	in.Subject = string(long)

	errs := ValidateInteractionInput(in, time.Now())
	require.Len(t, errs, 1)
	assert.Equal(t, "subject", errs[0].Field)
}

func TestValidateInteractionInput_DurationBounds(t *testing.T) {
	in := validInteractionInput()
	over := MaxDurationMin + 1
	in.DurationMinutes = &over

	errs := ValidateInteractionInput(in, time.Now())
	require.Len(t, errs, 1)
	assert.Equal(t, "durationMinutes", errs[0].Field)

	zero := 0
	in.DurationMinutes = &zero
	assert.Nil(t, ValidateInteractionInput(in, time.Now()))
}

func TestValidateInteractionInput_FollowUpDateRequired(t *testing.T) {
	in := validInteractionInput()
	in.FollowUpRequired = true

	errs := ValidateInteractionInput(in, time.Now())
	require.Len(t, errs, 1)
	assert.Equal(t, "followUpDate", errs[0].Field)

	due := time.Now().Add(48 * time.Hour)
	in.FollowUpDate = &due
	assert.Nil(t, ValidateInteractionInput(in, time.Now()))
}

func TestParseInteractionPriority_EnumValues(t *testing.T) {
	for _, v := range []string{"low", "medium", "high"} {
		p, ok := ParseInteractionPriority(v)
		require.True(t, ok, v)
		assert.Equal(t, InteractionPriority(v), p)
	}
}

func TestParseInteractionPriority_NumericScale(t *testing.T) {
	cases := map[string]InteractionPriority{
		"1": PriorityLow,
		"2": PriorityLow,
		"3": PriorityMedium,
		"4": PriorityHigh,
		"5": PriorityHigh,
	}
	for in, want := range cases {
		p, ok := ParseInteractionPriority(in)
		require.True(t, ok, in)
		assert.Equal(t, want, p)
	}
}

func TestParseInteractionPriority_Invalid(t *testing.T) {
	for _, v := range []string{"0", "6", "urgent", "critical"} {
		_, ok := ParseInteractionPriority(v)
		assert.False(t, ok, v)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" VIP ", "vip", "Enterprise", "", "  "})
	assert.Equal(t, []string{"vip", "enterprise"}, got)

	assert.Nil(t, NormalizeTags(nil))
	assert.Nil(t, NormalizeTags([]string{"", "   "}))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.c", NormalizeEmail("  A@B.C  "))
}
