package app

import (
	"context"

	"arb-dashboard/internal/model"
)

// fakeBackend records calls and returns canned answers.
type fakeBackend struct {
	calls map[string]int

	healthErr  error
	sessionIDs []string
	sessionErr error

	chatReply *model.ChatReply
	chatErr   error
	chatReqs  []model.ChatRequest

	feedbackErr error
	feedback    []model.FeedbackSubmission

	tokenInfo *model.TokenInfo
	tokenErr  error

	faqs      model.FAQList
	documents []model.AdminDocument
	docErr    error
	owners    []model.ProcessOwner
	toggle    *model.ToggleResult
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: map[string]int{}}
}

func (f *fakeBackend) Health(ctx context.Context) (model.Opaque, error) {
	f.calls["health"]++
	if f.healthErr != nil {
		return nil, f.healthErr
	}
	return model.Opaque(`{"status":"healthy"}`), nil
}

func (f *fakeBackend) CreateSession(ctx context.Context, token string) (string, error) {
	f.calls["create_session"]++
	if f.sessionErr != nil {
		return "", f.sessionErr
	}
	id := f.sessionIDs[0]
	if len(f.sessionIDs) > 1 {
		f.sessionIDs = f.sessionIDs[1:]
	}
	return id, nil
}

func (f *fakeBackend) Chat(ctx context.Context, token string, req model.ChatRequest) (*model.ChatReply, error) {
	f.calls["chat"]++
	f.chatReqs = append(f.chatReqs, req)
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	reply := *f.chatReply
	return &reply, nil
}

func (f *fakeBackend) SubmitFeedback(ctx context.Context, token string, sub model.FeedbackSubmission) error {
	f.calls["feedback"]++
	if f.feedbackErr != nil {
		return f.feedbackErr
	}
	f.feedback = append(f.feedback, sub)
	return nil
}

func (f *fakeBackend) ValidateToken(ctx context.Context, token string) (*model.TokenInfo, error) {
	f.calls["validate_token"]++
	if f.tokenErr != nil {
		return nil, f.tokenErr
	}
	return f.tokenInfo, nil
}

func (f *fakeBackend) SystemStatus(ctx context.Context, token string) (model.Opaque, error) {
	f.calls["system_status"]++
	return model.Opaque(`{"documents": 3}`), nil
}

func (f *fakeBackend) FAQ(ctx context.Context, token string) (model.FAQList, error) {
	f.calls["faq"]++
	return f.faqs, nil
}

func (f *fakeBackend) MyFeedback(ctx context.Context, token string) (*model.FeedbackHistory, error) {
	f.calls["my_feedback"]++
	return &model.FeedbackHistory{FeedbackHistory: []model.FeedbackEntry{}}, nil
}

func (f *fakeBackend) FeedbackStats(ctx context.Context, token string) (*model.FeedbackStats, error) {
	f.calls["feedback_stats"]++
	return &model.FeedbackStats{TotalFeedback: 1}, nil
}

func (f *fakeBackend) AdminDashboard(ctx context.Context, token string) (model.Opaque, error) {
	f.calls["admin_dashboard"]++
	return model.Opaque(`{"documents": 57}`), nil
}

func (f *fakeBackend) AdminUsers(ctx context.Context, token string) (model.Opaque, error) {
	f.calls["admin_users"]++
	return model.Opaque(`{"users": []}`), nil
}

func (f *fakeBackend) AdminAnalytics(ctx context.Context, token string, days int) (model.Opaque, error) {
	f.calls["admin_analytics"]++
	return model.Opaque(`{"days": 1}`), nil
}

func (f *fakeBackend) AdminDocuments(ctx context.Context, token string, filter model.DocumentFilter) (*model.DocumentList, error) {
	f.calls["admin_documents"]++
	if f.docErr != nil {
		return nil, f.docErr
	}
	docs := make([]model.AdminDocument, len(f.documents))
	copy(docs, f.documents)
	return &model.DocumentList{Documents: docs}, nil
}

func (f *fakeBackend) ToggleDocument(ctx context.Context, token, id string) (*model.ToggleResult, error) {
	f.calls["toggle_document"]++
	return f.toggle, nil
}

func (f *fakeBackend) DeleteDocument(ctx context.Context, token, id string) (*model.DeleteResult, error) {
	f.calls["delete_document"]++
	return &model.DeleteResult{Message: "deleted"}, nil
}

func (f *fakeBackend) AddDocument(ctx context.Context, token string, req model.AddDocumentRequest) (model.Opaque, error) {
	f.calls["add_document"]++
	return model.Opaque(`{"message": "queued"}`), nil
}

func (f *fakeBackend) SafetyLogs(ctx context.Context, token string, filter model.SafetyLogFilter) (*model.SafetyLogList, error) {
	f.calls["safety_logs"]++
	return &model.SafetyLogList{SafetyLogs: []model.SafetyLogEntry{}}, nil
}

func (f *fakeBackend) ProcessOwners(ctx context.Context, token string) ([]model.ProcessOwner, error) {
	f.calls["process_owners"]++
	return f.owners, nil
}

func (f *fakeBackend) CreateProcessOwner(ctx context.Context, token string, owner model.ProcessOwner) (model.Opaque, error) {
	f.calls["create_process_owner"]++
	return model.Opaque(`{}`), nil
}

func (f *fakeBackend) UpdateProcessOwner(ctx context.Context, token, id string, owner model.ProcessOwner) (model.Opaque, error) {
	f.calls["update_process_owner"]++
	return model.Opaque(`{}`), nil
}

func (f *fakeBackend) DeleteProcessOwner(ctx context.Context, token, id string) (model.Opaque, error) {
	f.calls["delete_process_owner"]++
	return model.Opaque(`{}`), nil
}

type recordingPublisher struct {
	events []model.UsageEvent
	err    error
}

func (p *recordingPublisher) PublishUsage(ctx context.Context, event model.UsageEvent) error {
	p.events = append(p.events, event)
	return p.err
}
