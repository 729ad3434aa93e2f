// Package graphql exposes the sharing workflow as a GraphQL schema.
package graphql

import (
	"context"

	"github.com/google/uuid"
	gql "github.com/graphql-go/graphql"

	"birthdays/internal/config"
	"birthdays/internal/models"
	"birthdays/internal/sharing"
	"birthdays/internal/validation"
)

// Services are the operations the schema resolves against.
type Services struct {
	Links  sharing.LinkManager
	Intake sharing.Submitter
	Review sharing.Reviewer
	Owner  sharing.OwnerManager
	Config *config.Config
}

type resolver struct {
	Services
}

// NewSchema builds the schema.
func NewSchema(svc Services) (gql.Schema, error) {
	r := &resolver{Services: svc}

	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"sharingLinks": &gql.Field{
				Type:    gql.NewNonNull(gql.NewList(gql.NewNonNull(sharingLinkType))),
				Resolve: r.sharingLinks,
			},
			"pendingSubmissions": &gql.Field{
				Type:    gql.NewNonNull(gql.NewList(gql.NewNonNull(reviewItemType))),
				Resolve: r.pendingSubmissions,
			},
			"birthdays": &gql.Field{
				Type:    gql.NewNonNull(gql.NewList(gql.NewNonNull(birthdayType))),
				Resolve: r.birthdays,
			},
			"notificationPreferences": &gql.Field{
				Type:    gql.NewNonNull(preferenceType),
				Resolve: r.notificationPreferences,
			},
			"expirationOptions": &gql.Field{
				Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(gql.Int))),
				Resolve: func(gql.ResolveParams) (interface{}, error) {
					return r.Links.AllowedExpirationHours(), nil
				},
			},
		},
	})

	idArgs := gql.FieldConfigArgument{
		"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)},
	}
	idsArgs := gql.FieldConfigArgument{
		"ids": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(gql.ID)))},
	}

	mutation := gql.NewObject(gql.ObjectConfig{
		Name: "Mutation",
		Fields: gql.Fields{
			"createSharingLink": &gql.Field{
				Type: gql.NewNonNull(sharingLinkType),
				Args: gql.FieldConfigArgument{
					"description":     &gql.ArgumentConfig{Type: gql.String},
					"expirationHours": &gql.ArgumentConfig{Type: gql.Int},
				},
				Resolve: r.createSharingLink,
			},
			"revokeSharingLink": &gql.Field{
				Type: gql.NewNonNull(sharingLinkType),
				Args: gql.FieldConfigArgument{
					"linkId": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.ID)},
				},
				Resolve: r.revokeSharingLink,
			},
			"submitBirthday": &gql.Field{
				Type: gql.NewNonNull(receiptType),
				Args: gql.FieldConfigArgument{
					"token":          &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"name":           &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"date":           &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"category":       &gql.ArgumentConfig{Type: gql.String},
					"notes":          &gql.ArgumentConfig{Type: gql.String},
					"submitterName":  &gql.ArgumentConfig{Type: gql.String},
					"submitterEmail": &gql.ArgumentConfig{Type: gql.String},
					"relationship":   &gql.ArgumentConfig{Type: gql.String},
				},
				Resolve: r.submitBirthday,
			},
			"importSubmission": &gql.Field{
				Type:    gql.NewNonNull(birthdayType),
				Args:    idArgs,
				Resolve: r.importSubmission,
			},
			"rejectSubmission": &gql.Field{
				Type:    gql.NewNonNull(submissionType),
				Args:    idArgs,
				Resolve: r.rejectSubmission,
			},
			"importSubmissions": &gql.Field{
				Type:    gql.NewNonNull(bulkResultType),
				Args:    idsArgs,
				Resolve: r.importSubmissions,
			},
			"rejectSubmissions": &gql.Field{
				Type:    gql.NewNonNull(bulkResultType),
				Args:    idsArgs,
				Resolve: r.rejectSubmissions,
			},
			"createBirthday": &gql.Field{
				Type: gql.NewNonNull(birthdayType),
				Args: gql.FieldConfigArgument{
					"input": &gql.ArgumentConfig{Type: gql.NewNonNull(birthdayInputType)},
				},
				Resolve: r.createBirthday,
			},
			"deleteBirthday": &gql.Field{
				Type:    gql.NewNonNull(birthdayType),
				Args:    idArgs,
				Resolve: r.deleteBirthday,
			},
			"updateNotificationPreferences": &gql.Field{
				Type: gql.NewNonNull(preferenceType),
				Args: gql.FieldConfigArgument{
					"emailNotifications":   &gql.ArgumentConfig{Type: gql.Boolean},
					"summaryNotifications": &gql.ArgumentConfig{Type: gql.Boolean},
				},
				Resolve: r.updateNotificationPreferences,
			},
		},
	})

	return gql.NewSchema(gql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

func (r *resolver) sharingLinks(p gql.ResolveParams) (interface{}, error) {
	links, err := r.Links.ListForOwner(p.Context, ownerFrom(p.Context))
	if err != nil {
		return nil, newResolverError(err)
	}
	out := make([]interface{}, len(links))
	for i := range links {
		out[i] = linkMap(r.Config, &links[i])
	}
	return out, nil
}

func (r *resolver) pendingSubmissions(p gql.ResolveParams) (interface{}, error) {
	items, err := r.Review.ListPending(p.Context, ownerFrom(p.Context))
	if err != nil {
		return nil, newResolverError(err)
	}
	out := make([]interface{}, len(items))
	for i := range items {
		out[i] = map[string]interface{}{
			"submission":          submissionMap(&items[i].Submission),
			"duplicateCandidates": birthdayList(items[i].Candidates),
		}
	}
	return out, nil
}

func (r *resolver) birthdays(p gql.ResolveParams) (interface{}, error) {
	bs, err := r.Owner.ListBirthdays(p.Context, ownerFrom(p.Context))
	if err != nil {
		return nil, newResolverError(err)
	}
	return birthdayList(bs), nil
}

func (r *resolver) notificationPreferences(p gql.ResolveParams) (interface{}, error) {
	pref, err := r.Owner.Preferences(p.Context, ownerFrom(p.Context))
	if err != nil {
		return nil, newResolverError(err)
	}
	return preferenceMap(pref), nil
}

func (r *resolver) createSharingLink(p gql.ResolveParams) (interface{}, error) {
	var description *string
	if v, ok := p.Args["description"].(string); ok {
		description = &v
	}
	var hours *int
	if v, ok := p.Args["expirationHours"].(int); ok {
		hours = &v
	}

	link, err := r.Links.Create(p.Context, ownerFrom(p.Context), description, hours)
	if err != nil {
		return nil, newResolverError(err)
	}
	return linkMap(r.Config, link), nil
}

func (r *resolver) revokeSharingLink(p gql.ResolveParams) (interface{}, error) {
	id, err := idArg(p, "linkId")
	if err != nil {
		return nil, newResolverError(err)
	}
	link, err := r.Links.Revoke(p.Context, ownerFrom(p.Context), id)
	if err != nil {
		return nil, newResolverError(err)
	}
	return linkMap(r.Config, link), nil
}

func (r *resolver) submitBirthday(p gql.ResolveParams) (interface{}, error) {
	token := stringField(p.Args, "token")
	in := validation.SubmissionInput{
		Name:           stringField(p.Args, "name"),
		Date:           stringField(p.Args, "date"),
		Category:       stringField(p.Args, "category"),
		Notes:          stringField(p.Args, "notes"),
		SubmitterName:  stringField(p.Args, "submitterName"),
		SubmitterEmail: stringField(p.Args, "submitterEmail"),
		Relationship:   stringField(p.Args, "relationship"),
	}

	sub, err := r.Intake.Submit(p.Context, token, clientIPFrom(p.Context), in)
	if err != nil {
		return nil, newPublicError(err)
	}
	receipt := models.NewSubmissionReceipt(sub)
	return map[string]interface{}{
		"name":   receipt.Name,
		"date":   receipt.Date,
		"status": receipt.Status,
	}, nil
}

func (r *resolver) importSubmission(p gql.ResolveParams) (interface{}, error) {
	id, err := idArg(p, "id")
	if err != nil {
		return nil, newResolverError(err)
	}
	b, err := r.Review.ImportOne(p.Context, ownerFrom(p.Context), id)
	if err != nil {
		return nil, newResolverError(err)
	}
	return birthdayMap(b), nil
}

func (r *resolver) rejectSubmission(p gql.ResolveParams) (interface{}, error) {
	id, err := idArg(p, "id")
	if err != nil {
		return nil, newResolverError(err)
	}
	sub, err := r.Review.RejectOne(p.Context, ownerFrom(p.Context), id)
	if err != nil {
		return nil, newResolverError(err)
	}
	return submissionMap(sub), nil
}

func (r *resolver) importSubmissions(p gql.ResolveParams) (interface{}, error) {
	return r.bulk(p, r.Review.ImportBulk)
}

func (r *resolver) rejectSubmissions(p gql.ResolveParams) (interface{}, error) {
	return r.bulk(p, r.Review.RejectBulk)
}

func (r *resolver) bulk(p gql.ResolveParams, run func(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (sharing.BulkResult, error)) (interface{}, error) {
	ids, err := idsArg(p)
	if err != nil {
		return nil, newResolverError(err)
	}
	result, err := run(p.Context, ownerFrom(p.Context), ids)
	if err != nil {
		return nil, newResolverError(err)
	}
	return bulkMap(ids, result), nil
}

func (r *resolver) createBirthday(p gql.ResolveParams) (interface{}, error) {
	input, _ := p.Args["input"].(map[string]interface{})
	in := validation.BirthdayInput{
		Name:     stringField(input, "name"),
		Date:     stringField(input, "date"),
		Category: optionalField(input, "category"),
		Notes:    optionalField(input, "notes"),
	}

	b, err := r.Owner.CreateBirthday(p.Context, ownerFrom(p.Context), in)
	if err != nil {
		return nil, newResolverError(err)
	}
	return birthdayMap(b), nil
}

func (r *resolver) deleteBirthday(p gql.ResolveParams) (interface{}, error) {
	id, err := idArg(p, "id")
	if err != nil {
		return nil, newResolverError(err)
	}
	b, err := r.Owner.DeleteBirthday(p.Context, ownerFrom(p.Context), id)
	if err != nil {
		return nil, newResolverError(err)
	}
	return birthdayMap(b), nil
}

func (r *resolver) updateNotificationPreferences(p gql.ResolveParams) (interface{}, error) {
	var email, summary *bool
	if v, ok := p.Args["emailNotifications"].(bool); ok {
		email = &v
	}
	if v, ok := p.Args["summaryNotifications"].(bool); ok {
		summary = &v
	}

	pref, err := r.Owner.UpdatePreferences(p.Context, ownerFrom(p.Context), email, summary)
	if err != nil {
		return nil, newResolverError(err)
	}
	return preferenceMap(pref), nil
}

// idArg parses an id argument. A malformed id names no record.
func idArg(p gql.ResolveParams, name string) (uuid.UUID, error) {
	raw, _ := p.Args[name].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, sharing.ErrNotFound
	}
	return id, nil
}

func idsArg(p gql.ResolveParams) ([]uuid.UUID, error) {
	raw, _ := p.Args["ids"].([]interface{})

	var errs validation.Errors
	ids := make([]uuid.UUID, 0, len(raw))
	for _, v := range raw {
		s, _ := v.(string)
		id, err := uuid.Parse(s)
		if err != nil {
			errs = append(errs, validation.FieldError{Field: "ids", Message: "invalid id " + s})
			continue
		}
		ids = append(ids, id)
	}
	if len(errs) > 0 {
		return nil, sharing.Validation(errs)
	}
	return ids, nil
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func optionalField(m map[string]interface{}, key string) *string {
	if s, ok := m[key].(string); ok {
		return &s
	}
	return nil
}
