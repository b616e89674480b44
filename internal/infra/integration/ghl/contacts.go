package ghl

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrContactNotFound is returned by FindContactByEmail when the search is empty.
var ErrContactNotFound = eris.New("ghl: contact not found")

// WizardTags is written on every create and update. Updates replace whatever
// tags the contact had.
var WizardTags = []string{"wizard-est", "website-lead"}

// SplitFullName returns the first whitespace separated token as the first
// name and the remaining tokens joined by one space as the last name.
func SplitFullName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func (c *Client) contactPayload(in ContactInput) contactPayload {
	first, last := SplitFullName(in.FullName)
	tags := make([]string, len(WizardTags))
	copy(tags, WizardTags)
	return contactPayload{
		Email:       in.Email,
		Phone:       in.Phone,
		Name:        strings.TrimSpace(in.FullName),
		FirstName:   first,
		LastName:    last,
		CompanyName: in.CompanyName,
		LocationID:  c.locationID,
		Tags:        tags,
	}
}

// FindContactByEmail searches the location for email. When the CRM holds more
// than one contact for it the first match wins.
func (c *Client) FindContactByEmail(ctx context.Context, email string) (string, error) {
	query := url.Values{}
	query.Set("locationId", c.locationID)
	query.Set("query", email)

	var resp searchContactsResponse
	if err := c.do(ctx, "search contacts", http.MethodGet, "/contacts/", query, nil, &resp); err != nil {
		return "", err
	}

	if len(resp.Contacts) == 0 || resp.Contacts[0].ID == "" {
		return "", ErrContactNotFound
	}
	if len(resp.Contacts) > 1 {
		c.log.Warn("ghl: multiple contacts match email, using first",
			zap.String("email", email),
			zap.Int("matches", len(resp.Contacts)),
			zap.String("contact_id", resp.Contacts[0].ID),
		)
	}
	return resp.Contacts[0].ID, nil
}

func (c *Client) CreateContact(ctx context.Context, in ContactInput) (string, error) {
	var resp contactResponse
	if err := c.do(ctx, "create contact", http.MethodPost, "/contacts/", nil, c.contactPayload(in), &resp); err != nil {
		return "", err
	}
	if resp.Contact.ID == "" {
		return "", eris.New("ghl: create contact: response has no contact id")
	}
	return resp.Contact.ID, nil
}

func (c *Client) UpdateContact(ctx context.Context, id string, in ContactInput) error {
	path := "/contacts/" + url.PathEscape(id)
	return c.do(ctx, "update contact", http.MethodPut, path, nil, c.contactPayload(in), nil)
}
