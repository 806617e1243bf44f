package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sells-group/lead-qualifier/internal/model"
)

var validate = validator.New()

// ValidateLead reports why a lead cannot be qualified, or "" when it can.
func ValidateLead(lead model.LeadInput) string {
	if err := validate.Struct(lead); err != nil {
		return validationReason(err)
	}
	if !hasContact(lead) {
		return "no name, email or source handle was provided"
	}
	return ""
}

// ValidateBatch returns a reason per index for leads that cannot be
// qualified. Repeated ids are rejected after their first occurrence.
func ValidateBatch(leads []model.LeadInput) map[int]string {
	invalid := make(map[int]string)
	seen := make(map[int64]bool, len(leads))
	for i, lead := range leads {
		if reason := ValidateLead(lead); reason != "" {
			invalid[i] = reason
			continue
		}
		if seen[lead.ID] {
			invalid[i] = fmt.Sprintf("id %d appears more than once in the batch", lead.ID)
			continue
		}
		seen[lead.ID] = true
	}
	return invalid
}

func hasContact(lead model.LeadInput) bool {
	if strings.TrimSpace(lead.Name) != "" || strings.TrimSpace(lead.Email) != "" {
		return true
	}
	return len(lead.Handles()) > 0
}

func validationReason(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "lead is invalid"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", strings.ToLower(fe.Field()))
	case "gte", "lte":
		return fmt.Sprintf("%s must be between 0 and 130", strings.ToLower(fe.Field()))
	default:
		return fmt.Sprintf("%s failed %s validation", strings.ToLower(fe.Field()), fe.Tag())
	}
}
