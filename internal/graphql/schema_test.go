package graphql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	gql "github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"birthdays/internal/config"
	"birthdays/internal/models"
	"birthdays/internal/sharing"
	"birthdays/internal/validation"
)

var owner = uuid.MustParse("0f6c7e52-2c51-4bb5-8d7b-9a1d7f1f7f01")

// fakeServices implements every service interface; owner operations
// reject uuid.Nil the way the real services do.
type fakeServices struct {
	submitErr  error
	submitted  validation.SubmissionInput
	pending    []sharing.ReviewItem
	bulk       sharing.BulkResult
	lastHours  *int
	revokedID  uuid.UUID
	revokedErr error
}

func (f *fakeServices) Create(_ context.Context, ownerID uuid.UUID, description *string, hours *int) (*models.SharingLink, error) {
	if ownerID == uuid.Nil {
		return nil, sharing.ErrForbidden
	}
	f.lastHours = hours
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	return &models.SharingLink{ID: uuid.New(), OwnerID: ownerID, Token: "tok", Description: description, CreatedAt: now, ExpiresAt: now.Add(168 * time.Hour), IsActive: true}, nil
}

func (f *fakeServices) Revoke(_ context.Context, ownerID, linkID uuid.UUID) (*models.SharingLink, error) {
	if f.revokedErr != nil {
		return nil, f.revokedErr
	}
	f.revokedID = linkID
	return &models.SharingLink{ID: linkID, OwnerID: ownerID, Token: "tok", IsActive: false}, nil
}

func (f *fakeServices) ListForOwner(_ context.Context, ownerID uuid.UUID) ([]models.SharingLink, error) {
	if ownerID == uuid.Nil {
		return nil, sharing.ErrForbidden
	}
	return []models.SharingLink{}, nil
}

func (f *fakeServices) ResolveActive(context.Context, string) (*models.SharingLink, error) {
	return nil, sharing.ErrExpiredOrInvalid
}

func (f *fakeServices) Lookup(context.Context, string) (*models.SharingLink, error) {
	return nil, sharing.ErrNotFound
}

func (f *fakeServices) AllowedExpirationHours() []int { return []int{24, 168} }

func (f *fakeServices) Submit(_ context.Context, _, _ string, in validation.SubmissionInput) (*models.Submission, error) {
	f.submitted = in
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	date, err := models.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	return &models.Submission{ID: uuid.New(), Name: in.Name, Date: date, Status: models.StatusPending}, nil
}

func (f *fakeServices) ListPending(_ context.Context, ownerID uuid.UUID) ([]sharing.ReviewItem, error) {
	if ownerID == uuid.Nil {
		return nil, sharing.ErrForbidden
	}
	return f.pending, nil
}

func (f *fakeServices) ImportOne(context.Context, uuid.UUID, uuid.UUID) (*models.Birthday, error) {
	return nil, sharing.ErrInvalidState
}

func (f *fakeServices) RejectOne(_ context.Context, ownerID, id uuid.UUID) (*models.Submission, error) {
	return &models.Submission{ID: id, OwnerID: ownerID, Name: "Ada", Date: models.NewDate(0, time.December, 10), Status: models.StatusRejected}, nil
}

func (f *fakeServices) ImportBulk(context.Context, uuid.UUID, []uuid.UUID) (sharing.BulkResult, error) {
	return f.bulk, nil
}

func (f *fakeServices) RejectBulk(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (sharing.BulkResult, error) {
	return f.ImportBulk(ctx, ownerID, ids)
}

func (f *fakeServices) ListBirthdays(context.Context, uuid.UUID) ([]models.Birthday, error) {
	return nil, sharing.Internal("list birthdays", errors.New("connection reset by peer"))
}

func (f *fakeServices) CreateBirthday(_ context.Context, ownerID uuid.UUID, in validation.BirthdayInput) (*models.Birthday, error) {
	return &models.Birthday{ID: uuid.New(), OwnerID: ownerID, Name: in.Name, Category: in.Category}, nil
}

func (f *fakeServices) DeleteBirthday(_ context.Context, ownerID, id uuid.UUID) (*models.Birthday, error) {
	return &models.Birthday{ID: id, OwnerID: ownerID, Name: "Grace", Date: models.NewDate(1906, time.December, 9)}, nil
}

func (f *fakeServices) Preferences(_ context.Context, ownerID uuid.UUID) (*models.NotificationPreference, error) {
	return models.DefaultNotificationPreference(ownerID), nil
}

func (f *fakeServices) UpdatePreferences(_ context.Context, ownerID uuid.UUID, email, summary *bool) (*models.NotificationPreference, error) {
	pref := models.DefaultNotificationPreference(ownerID)
	if email != nil {
		pref.EmailNotifications = *email
	}
	if summary != nil {
		pref.SummaryNotifications = *summary
	}
	return pref, nil
}

func run(t *testing.T, f *fakeServices, ctx context.Context, query string, vars map[string]interface{}) *gql.Result {
	t.Helper()
	schema, err := NewSchema(Services{
		Links:  f,
		Intake: f,
		Review: f,
		Owner:  f,
		Config: &config.Config{BaseURL: "https://birthdays.example.com"},
	})
	require.NoError(t, err)

	return gql.Do(gql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        ctx,
	})
}

func ownerCtx() context.Context {
	return WithOwner(context.Background(), owner)
}

func errorKind(t *testing.T, res *gql.Result) string {
	t.Helper()
	require.NotEmpty(t, res.Errors)
	kind, _ := res.Errors[0].Extensions["kind"].(string)
	return kind
}

func TestAnonymousOwnerQueryIsForbidden(t *testing.T) {
	res := run(t, &fakeServices{}, context.Background(), `{ sharingLinks { id } }`, nil)
	assert.Equal(t, "FORBIDDEN", errorKind(t, res))
}

func TestCreateSharingLink(t *testing.T) {
	f := &fakeServices{}
	res := run(t, f, ownerCtx(), `mutation { createSharingLink(description: "Family", expirationHours: 24) { url description isActive } }`, nil)
	require.Empty(t, res.Errors)

	link := res.Data.(map[string]interface{})["createSharingLink"].(map[string]interface{})
	assert.Equal(t, "https://birthdays.example.com/share/tok", link["url"])
	assert.Equal(t, "Family", link["description"])
	require.NotNil(t, f.lastHours)
	assert.Equal(t, 24, *f.lastHours)
}

func TestSubmitBirthday(t *testing.T) {
	const mutation = `mutation($name: String!, $date: String!) {
		submitBirthday(token: "tok", name: $name, date: $date) { kind name date status }
	}`
	vars := map[string]interface{}{"name": "John Doe", "date": "1990-05-15"}

	t.Run("accepted", func(t *testing.T) {
		res := run(t, &fakeServices{}, context.Background(), mutation, vars)
		require.Empty(t, res.Errors)
		receipt := res.Data.(map[string]interface{})["submitBirthday"].(map[string]interface{})
		assert.Equal(t, "SubmissionReceipt", receipt["kind"])
		assert.Equal(t, "John Doe", receipt["name"])
		assert.Equal(t, "pending", receipt["status"])
	})

	t.Run("flat optional arguments", func(t *testing.T) {
		f := &fakeServices{}
		res := run(t, f, context.Background(), `mutation {
			submitBirthday(token: "tok", name: "John Doe", date: "1990-05-15", category: "family",
				notes: "likes cake", submitterName: "Jane", submitterEmail: "jane@example.com", relationship: "sister") { status }
		}`, nil)
		require.Empty(t, res.Errors)
		assert.Equal(t, validation.SubmissionInput{
			Name:           "John Doe",
			Date:           "1990-05-15",
			Category:       "family",
			Notes:          "likes cake",
			SubmitterName:  "Jane",
			SubmitterEmail: "jane@example.com",
			Relationship:   "sister",
		}, f.submitted)
	})

	t.Run("rate limited", func(t *testing.T) {
		res := run(t, &fakeServices{submitErr: sharing.RateLimited(90 * time.Second)}, context.Background(), mutation, vars)
		assert.Equal(t, "RATE_LIMITED", errorKind(t, res))
		assert.EqualValues(t, 90, res.Errors[0].Extensions["retryAfter"])
	})

	t.Run("validation", func(t *testing.T) {
		fields := validation.Errors{{Field: "name", Message: "name is required"}}
		res := run(t, &fakeServices{submitErr: sharing.Validation(fields)}, context.Background(), mutation, vars)
		assert.Equal(t, "VALIDATION_ERROR", errorKind(t, res))
		assert.Len(t, res.Errors[0].Extensions["fields"], 1)
	})

	t.Run("owner-only kinds are hidden", func(t *testing.T) {
		res := run(t, &fakeServices{submitErr: sharing.ErrForbidden}, context.Background(), mutation, vars)
		assert.Equal(t, "INTERNAL", errorKind(t, res))
	})
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	res := run(t, &fakeServices{}, ownerCtx(), `{ birthdays { id } }`, nil)
	assert.Equal(t, "INTERNAL", errorKind(t, res))
	assert.NotContains(t, res.Errors[0].Message, "connection reset")
}

func TestImportSubmissionInvalidState(t *testing.T) {
	res := run(t, &fakeServices{}, ownerCtx(), `mutation { importSubmission(id: "`+uuid.NewString()+`") { id } }`, nil)
	assert.Equal(t, "INVALID_STATE", errorKind(t, res))
}

func TestRevokeSharingLink(t *testing.T) {
	id := uuid.New()
	f := &fakeServices{}
	res := run(t, f, ownerCtx(), `mutation { revokeSharingLink(linkId: "`+id.String()+`") { kind id isActive } }`, nil)
	require.Empty(t, res.Errors)
	assert.Equal(t, id, f.revokedID)

	link := res.Data.(map[string]interface{})["revokeSharingLink"].(map[string]interface{})
	assert.Equal(t, "SharingLink", link["kind"])
	assert.Equal(t, false, link["isActive"])
}

func TestRevokeMalformedID(t *testing.T) {
	res := run(t, &fakeServices{}, ownerCtx(), `mutation { revokeSharingLink(linkId: "nope") { id } }`, nil)
	assert.Equal(t, "NOT_FOUND", errorKind(t, res))
}

func TestBulkOutcomesFollowRequestOrder(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	f := &fakeServices{bulk: sharing.BulkResult{
		a: {Status: models.StatusImported},
		b: {Kind: sharing.KindInvalidState, Message: "submission has already been reviewed"},
	}}

	res := run(t, f, ownerCtx(), `mutation($ids: [ID!]!) { importSubmissions(ids: $ids) { kind succeeded outcomes { id ok errorKind } } }`,
		map[string]interface{}{"ids": []interface{}{b.String(), a.String(), b.String()}})
	require.Empty(t, res.Errors)

	data := res.Data.(map[string]interface{})["importSubmissions"].(map[string]interface{})
	assert.Equal(t, "BulkResult", data["kind"])
	assert.Equal(t, 1, data["succeeded"])

	outcomes := data["outcomes"].([]interface{})
	require.Len(t, outcomes, 2)
	first := outcomes[0].(map[string]interface{})
	assert.Equal(t, b.String(), first["id"])
	assert.Equal(t, false, first["ok"])
	assert.Equal(t, "INVALID_STATE", first["errorKind"])
}

func TestBulkMalformedID(t *testing.T) {
	res := run(t, &fakeServices{}, ownerCtx(), `mutation { rejectSubmissions(ids: ["bad"]) { succeeded } }`, nil)
	assert.Equal(t, "VALIDATION_ERROR", errorKind(t, res))
}

func TestUpdateNotificationPreferences(t *testing.T) {
	res := run(t, &fakeServices{}, ownerCtx(), `mutation { updateNotificationPreferences(emailNotifications: false, summaryNotifications: true) { emailNotifications summaryNotifications } }`, nil)
	require.Empty(t, res.Errors)

	pref := res.Data.(map[string]interface{})["updateNotificationPreferences"].(map[string]interface{})
	assert.Equal(t, false, pref["emailNotifications"])
	assert.Equal(t, true, pref["summaryNotifications"])
}

func TestExpirationOptions(t *testing.T) {
	res := run(t, &fakeServices{}, context.Background(), `{ expirationOptions }`, nil)
	require.Empty(t, res.Errors)
	assert.Equal(t, []interface{}{24, 168}, res.Data.(map[string]interface{})["expirationOptions"])
}

func TestMutationsReturnEntityWithKind(t *testing.T) {
	id := uuid.NewString()
	tests := []struct {
		name     string
		mutation string
		field    string
		wantKind string
	}{
		{"create link", `mutation { createSharingLink { __typename kind id } }`, "createSharingLink", "SharingLink"},
		{"reject", `mutation { rejectSubmission(id: "` + id + `") { __typename kind id status } }`, "rejectSubmission", "Submission"},
		{"create birthday", `mutation { createBirthday(input: {name: "Ada", date: "--12-10"}) { __typename kind id } }`, "createBirthday", "Birthday"},
		{"delete birthday", `mutation { deleteBirthday(id: "` + id + `") { __typename kind id } }`, "deleteBirthday", "Birthday"},
		{"preferences", `mutation { updateNotificationPreferences(emailNotifications: true) { __typename kind } }`, "updateNotificationPreferences", "NotificationPreferences"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, &fakeServices{}, ownerCtx(), tt.mutation, nil)
			require.Empty(t, res.Errors)

			payload := res.Data.(map[string]interface{})[tt.field].(map[string]interface{})
			assert.Equal(t, tt.wantKind, payload["kind"])
			assert.Equal(t, tt.wantKind, payload["__typename"])
		})
	}
}

func TestRejectSubmissionReturnsRejectedSubmission(t *testing.T) {
	id := uuid.NewString()
	res := run(t, &fakeServices{}, ownerCtx(), `mutation { rejectSubmission(id: "`+id+`") { id status date } }`, nil)
	require.Empty(t, res.Errors)

	sub := res.Data.(map[string]interface{})["rejectSubmission"].(map[string]interface{})
	assert.Equal(t, id, sub["id"])
	assert.Equal(t, "rejected", sub["status"])
	assert.Equal(t, "--12-10", sub["date"])
}
