package graphql

import (
	"time"

	"github.com/google/uuid"
	gql "github.com/graphql-go/graphql"

	"birthdays/internal/config"
	"birthdays/internal/models"
	"birthdays/internal/sharing"
)

// Objects resolve from plain maps so field names can follow GraphQL
// conventions independently of the JSON tags on the models.

// entityObject adds a constant kind field naming the object type, so clients
// can discriminate payloads without relying on __typename.
func entityObject(name string, fields gql.Fields) *gql.Object {
	fields["kind"] = &gql.Field{
		Type: gql.NewNonNull(gql.String),
		Resolve: func(gql.ResolveParams) (interface{}, error) {
			return name, nil
		},
	}
	return gql.NewObject(gql.ObjectConfig{Name: name, Fields: fields})
}

var sharingLinkType = entityObject("SharingLink", gql.Fields{
	"id":              &gql.Field{Type: gql.NewNonNull(gql.ID)},
	"token":           &gql.Field{Type: gql.NewNonNull(gql.String)},
	"url":             &gql.Field{Type: gql.NewNonNull(gql.String)},
	"description":     &gql.Field{Type: gql.String},
	"createdAt":       &gql.Field{Type: gql.NewNonNull(gql.String)},
	"expiresAt":       &gql.Field{Type: gql.NewNonNull(gql.String)},
	"isActive":        &gql.Field{Type: gql.NewNonNull(gql.Boolean)},
	"revokedAt":       &gql.Field{Type: gql.String},
	"submissionCount": &gql.Field{Type: gql.NewNonNull(gql.Int)},
})

var submissionType = entityObject("Submission", gql.Fields{
	"id":             &gql.Field{Type: gql.NewNonNull(gql.ID)},
	"linkId":         &gql.Field{Type: gql.NewNonNull(gql.ID)},
	"name":           &gql.Field{Type: gql.NewNonNull(gql.String)},
	"date":           &gql.Field{Type: gql.NewNonNull(gql.String)},
	"category":       &gql.Field{Type: gql.String},
	"notes":          &gql.Field{Type: gql.String},
	"submitterName":  &gql.Field{Type: gql.String},
	"submitterEmail": &gql.Field{Type: gql.String},
	"relationship":   &gql.Field{Type: gql.String},
	"status":         &gql.Field{Type: gql.NewNonNull(gql.String)},
	"createdAt":      &gql.Field{Type: gql.NewNonNull(gql.String)},
})

var birthdayType = entityObject("Birthday", gql.Fields{
	"id":                 &gql.Field{Type: gql.NewNonNull(gql.ID)},
	"name":               &gql.Field{Type: gql.NewNonNull(gql.String)},
	"date":               &gql.Field{Type: gql.NewNonNull(gql.String)},
	"category":           &gql.Field{Type: gql.String},
	"notes":              &gql.Field{Type: gql.String},
	"sourceSubmissionId": &gql.Field{Type: gql.ID},
	"createdAt":          &gql.Field{Type: gql.NewNonNull(gql.String)},
})

var reviewItemType = gql.NewObject(gql.ObjectConfig{
	Name: "PendingSubmission",
	Fields: gql.Fields{
		"submission": &gql.Field{Type: gql.NewNonNull(submissionType)},
		"duplicateCandidates": &gql.Field{
			Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(birthdayType))),
		},
	},
})

var preferenceType = entityObject("NotificationPreferences", gql.Fields{
	"emailNotifications":   &gql.Field{Type: gql.NewNonNull(gql.Boolean)},
	"summaryNotifications": &gql.Field{Type: gql.NewNonNull(gql.Boolean)},
})

var receiptType = entityObject("SubmissionReceipt", gql.Fields{
	"name":   &gql.Field{Type: gql.NewNonNull(gql.String)},
	"date":   &gql.Field{Type: gql.NewNonNull(gql.String)},
	"status": &gql.Field{Type: gql.NewNonNull(gql.String)},
})

var bulkOutcomeType = gql.NewObject(gql.ObjectConfig{
	Name: "BulkOutcome",
	Fields: gql.Fields{
		"id":        &gql.Field{Type: gql.NewNonNull(gql.ID)},
		"ok":        &gql.Field{Type: gql.NewNonNull(gql.Boolean)},
		"status":    &gql.Field{Type: gql.String},
		"errorKind": &gql.Field{Type: gql.String},
		"message":   &gql.Field{Type: gql.String},
		"birthday":  &gql.Field{Type: birthdayType},
	},
})

var bulkResultType = entityObject("BulkResult", gql.Fields{
	"succeeded": &gql.Field{Type: gql.NewNonNull(gql.Int)},
	"outcomes":  &gql.Field{Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(bulkOutcomeType)))},
})

var birthdayInputType = gql.NewInputObject(gql.InputObjectConfig{
	Name: "BirthdayInput",
	Fields: gql.InputObjectConfigFieldMap{
		"name":     &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
		"date":     &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)},
		"category": &gql.InputObjectFieldConfig{Type: gql.String},
		"notes":    &gql.InputObjectFieldConfig{Type: gql.String},
	},
})

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func optionalTimestamp(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return timestamp(*t)
}

func optionalString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func linkMap(cfg *config.Config, l *models.SharingLink) map[string]interface{} {
	return map[string]interface{}{
		"id":              l.ID.String(),
		"token":           l.Token,
		"url":             cfg.ShareURL(l.Token),
		"description":     optionalString(l.Description),
		"createdAt":       timestamp(l.CreatedAt),
		"expiresAt":       timestamp(l.ExpiresAt),
		"isActive":        l.IsActive,
		"revokedAt":       optionalTimestamp(l.RevokedAt),
		"submissionCount": l.SubmissionCount,
	}
}

func submissionMap(s *models.Submission) map[string]interface{} {
	return map[string]interface{}{
		"id":             s.ID.String(),
		"linkId":         s.LinkID.String(),
		"name":           s.Name,
		"date":           s.Date.String(),
		"category":       optionalString(s.Category),
		"notes":          optionalString(s.Notes),
		"submitterName":  optionalString(s.SubmitterName),
		"submitterEmail": optionalString(s.SubmitterEmail),
		"relationship":   optionalString(s.Relationship),
		"status":         s.Status,
		"createdAt":      timestamp(s.CreatedAt),
	}
}

func birthdayMap(b *models.Birthday) map[string]interface{} {
	var source interface{}
	if b.SourceSubmissionID != nil {
		source = b.SourceSubmissionID.String()
	}
	return map[string]interface{}{
		"id":                 b.ID.String(),
		"name":               b.Name,
		"date":               b.Date.String(),
		"category":           optionalString(b.Category),
		"notes":              optionalString(b.Notes),
		"sourceSubmissionId": source,
		"createdAt":          timestamp(b.CreatedAt),
	}
}

func birthdayList(bs []models.Birthday) []interface{} {
	out := make([]interface{}, len(bs))
	for i := range bs {
		out[i] = birthdayMap(&bs[i])
	}
	return out
}

func preferenceMap(p *models.NotificationPreference) map[string]interface{} {
	return map[string]interface{}{
		"emailNotifications":   p.EmailNotifications,
		"summaryNotifications": p.SummaryNotifications,
	}
}

// bulkMap lists outcomes in request order, once per distinct id.
func bulkMap(ids []uuid.UUID, result sharing.BulkResult) map[string]interface{} {
	outcomes := make([]interface{}, 0, len(result))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		o, ok := result[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true

		m := map[string]interface{}{
			"id":        id.String(),
			"ok":        o.OK(),
			"status":    nilIfEmpty(o.Status),
			"errorKind": nilIfEmpty(string(o.Kind)),
			"message":   nilIfEmpty(o.Message),
		}
		if o.Birthday != nil {
			m["birthday"] = birthdayMap(o.Birthday)
		}
		outcomes = append(outcomes, m)
	}
	return map[string]interface{}{
		"succeeded": result.Succeeded(),
		"outcomes":  outcomes,
	}
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
