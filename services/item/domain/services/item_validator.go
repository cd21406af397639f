// Package services holds the business rules of the item context that span
// more than one value object. It depends on the domain layer only.
package services

import (
	"errors"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/ghuser/apidocs/services/item/domain/models"
)

type rule struct {
	violated func(string) bool
	message  string
}

// nameRules are checked in order; the first violation is reported.
var nameRules = []rule{
	{func(s string) bool { return strings.TrimSpace(s) == "" }, "item name must not be only whitespace"},
	{func(s string) bool { return s != strings.TrimSpace(s) }, "item name must not have leading or trailing whitespace"},
	{func(s string) bool { return strings.ContainsFunc(s, unicode.IsControl) }, "item name must not contain control characters"},
	{func(s string) bool { return strings.Contains(s, "  ") }, "item name must not contain consecutive spaces"},
}

// ValidateName applies the naming rules an ItemName must satisfy beyond its
// length and encoding.
func ValidateName(name models.ItemName) error {
	s := name.String()
	for _, r := range nameRules {
		if r.violated(s) {
			return errors.New(r.message)
		}
	}
	return nil
}

// ValidateDescription rejects control characters other than newline and tab.
func ValidateDescription(description string) error {
	bad := strings.ContainsFunc(description, func(r rune) bool {
		return unicode.IsControl(r) && r != '\n' && r != '\t'
	})
	if bad {
		return errors.New("item description must not contain control characters")
	}
	return nil
}

// ValidateItemForCreation checks an Item built by models.NewItem before it is
// stored. All violations are joined.
func ValidateItemForCreation(item *models.Item) error {
	if item == nil {
		return errors.New("item cannot be nil")
	}

	var errs []error
	if item.ID == uuid.Nil {
		errs = append(errs, errors.New("id must be set"))
	}
	if item.OrgID == uuid.Nil {
		errs = append(errs, errors.New("org_id must be set"))
	}
	if err := ValidateName(item.Name); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateDescription(item.Description); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
