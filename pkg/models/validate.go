package models

import (
	"fmt"
	"strings"
	"time"
)

// FieldError describes a single validation failure on an input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of field-level validation failures.
// It implements error so it can flow through normal error returns.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add appends a field error.
func (v *ValidationErrors) add(field, format string, args ...any) {
	*v = append(*v, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// ValidateClientInput checks a client input and returns all field errors found.
// A nil return means the input is valid.
func ValidateClientInput(in *ClientInput) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(in.Name) == "" {
		errs.add("name", "name is required")
	}
	email := NormalizeEmail(in.Email)
	if email == "" {
		errs.add("email", "email is required")
	} else if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		errs.add("email", "email is not valid")
	}
	if strings.TrimSpace(in.Company) == "" {
		errs.add("company", "company is required")
	}

	status := ClientStatus(in.Status)
	if in.Status == "" {
		status = ClientStatusProspect
	}
	if !status.Valid() {
		errs.add("status", "status must be one of active, inactive, prospect, former")
	}

	priority := ClientPriority(in.Priority)
	if in.Priority == "" {
		priority = ClientPriorityMedium
	}
	if !priority.Valid() {
		errs.add("priority", "priority must be one of low, medium, high, critical")
	}

	if errs == nil {
		return nil
	}
	return errs
}

// ValidateInteractionInput checks an interaction input and returns all field
// errors found. A nil return means the input is valid.
//
// The follow-up date requirement is a business rule, not a storage constraint:
// it is enforced here so no partial write ever occurs.
func ValidateInteractionInput(in *InteractionInput, now time.Time) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(in.ClientID) == "" {
		errs.add("clientId", "clientId is required")
	}
	if !InteractionType(in.Type).Valid() {
		errs.add("type", "type must be one of email, meeting, call, note")
	}

	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		errs.add("subject", "subject is required")
	} else if len(subject) > MaxSubjectLen {
		errs.add("subject", "subject must be at most %d characters", MaxSubjectLen)
	}
	if len(in.Content) > MaxContentLen {
		errs.add("content", "content must be at most %d characters", MaxContentLen)
	}

	if in.DurationMinutes != nil {
		if *in.DurationMinutes < 0 || *in.DurationMinutes > MaxDurationMin {
			errs.add("durationMinutes", "duration must be between 0 and %d minutes", MaxDurationMin)
		}
	}

	if in.Priority != "" {
		if _, ok := ParseInteractionPriority(in.Priority); !ok {
			errs.add("priority", "priority must be low, medium, high, or 1-5")
		}
	}
	if !Outcome(in.Outcome).Valid() {
		errs.add("outcome", "outcome must be one of positive, neutral, negative, follow_up_needed")
	}

	if in.FollowUpRequired && in.FollowUpDate == nil {
		errs.add("followUpDate", "followUpDate is required when followUpRequired is set")
	}
	if len(in.FollowUpNotes) > MaxFollowUpNotes {
		errs.add("followUpNotes", "followUpNotes must be at most %d characters", MaxFollowUpNotes)
	}

	if errs == nil {
		return nil
	}
	return errs
}
