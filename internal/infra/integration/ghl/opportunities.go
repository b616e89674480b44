package ghl

import (
	"context"
	"net/http"
	"net/url"
)

const statusOpen = "open"

// ListPipelines returns every pipeline of the location with its stages in
// listed order.
func (c *Client) ListPipelines(ctx context.Context) ([]Pipeline, error) {
	query := url.Values{}
	query.Set("locationId", c.locationID)

	var resp pipelinesResponse
	if err := c.do(ctx, "list pipelines", http.MethodGet, "/opportunities/pipelines", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Pipelines, nil
}

// CreateOpportunity creates an open opportunity and returns its id. Opportunities
// are never updated afterwards.
func (c *Client) CreateOpportunity(ctx context.Context, in OpportunityInput) (string, error) {
	payload := opportunityPayload{
		PipelineID:      in.PipelineID,
		LocationID:      c.locationID,
		ContactID:       in.ContactID,
		Name:            in.Name,
		PipelineStageID: in.StageID,
		Status:          statusOpen,
		MonetaryValue:   in.MonetaryValue,
	}

	var resp opportunityResponse
	if err := c.do(ctx, "create opportunity", http.MethodPost, "/opportunities/", nil, payload, &resp); err != nil {
		return "", err
	}
	return resp.Opportunity.ID, nil
}

// CreateNote appends a note to the contact.
func (c *Client) CreateNote(ctx context.Context, contactID, body string) (string, error) {
	path := "/contacts/" + url.PathEscape(contactID) + "/notes"

	var resp noteResponse
	if err := c.do(ctx, "create note", http.MethodPost, path, nil, notePayload{Body: body}, &resp); err != nil {
		return "", err
	}
	return resp.Note.ID, nil
}
