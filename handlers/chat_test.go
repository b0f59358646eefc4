package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tripmate/models"

	"github.com/gin-gonic/gin"
)

// The fakes share an event log so tests can assert persistence ordering.
type eventLog struct {
	events []string
}

func (l *eventLog) record(e string) { l.events = append(l.events, e) }

func (l *eventLog) indexOf(e string) int {
	for i, got := range l.events {
		if got == e {
			return i
		}
	}
	return -1
}

type fakeChatRepo struct {
	log      *eventLog
	session  models.ChatSession
	messages []models.ChatMessage
}

func (f *fakeChatRepo) CreateSession(_ context.Context, _ models.ChatSession) error { return nil }

func (f *fakeChatRepo) GetSession(_ context.Context, sessionID string) (*models.ChatSession, error) {
	if sessionID != f.session.SessionID {
		return nil, errors.New("session not found")
	}
	s := f.session
	return &s, nil
}

func (f *fakeChatRepo) EndSession(_ context.Context, _ string) error { return nil }

func (f *fakeChatRepo) ListActiveSessions(_ context.Context) ([]models.ChatSession, error) {
	return nil, nil
}

func (f *fakeChatRepo) AppendMessage(_ context.Context, msg models.ChatMessage) (string, error) {
	f.log.record("append:" + msg.MessageType)
	f.messages = append(f.messages, msg)
	return "msg-1", nil
}

func (f *fakeChatRepo) GetMessages(_ context.Context, _ string) ([]models.ChatMessage, error) {
	return f.messages, nil
}

func (f *fakeChatRepo) CountMessages(_ context.Context, _ string) (int64, error) {
	return int64(len(f.messages)), nil
}

type fakeItineraryRepo struct {
	log           *eventLog
	stored        models.StoredItinerary
	updateDataErr error
}

func (f *fakeItineraryRepo) Create(_ context.Context, _ models.StoredItinerary) (string, error) {
	return f.stored.ID, nil
}

func (f *fakeItineraryRepo) GetByID(_ context.Context, id string) (*models.StoredItinerary, error) {
	if id != f.stored.ID {
		return nil, errors.New("itinerary not found")
	}
	s := f.stored
	return &s, nil
}

func (f *fakeItineraryRepo) UpdateData(_ context.Context, _ string, _ models.Itinerary) error {
	f.log.record("update_data")
	return f.updateDataErr
}

func (f *fakeItineraryRepo) ListActive(_ context.Context) ([]models.StoredItinerary, error) {
	return nil, nil
}

func (f *fakeItineraryRepo) SoftDelete(_ context.Context, _ string) error { return nil }

func (f *fakeItineraryRepo) SaveEdit(_ context.Context, _ models.ItineraryEdit) (string, error) {
	f.log.record("save_edit")
	return "edit-1", nil
}

func (f *fakeItineraryRepo) ListEdits(_ context.Context, _ string) ([]models.ItineraryEdit, error) {
	return nil, nil
}

type fakeTripMate struct {
	result  *models.ChatResult
	err     error
	history []models.ChatTurn
}

func (f *fakeTripMate) ProcessMessage(_ context.Context, _ string, _ models.Itinerary, history []models.ChatTurn) (*models.ChatResult, error) {
	f.history = history
	return f.result, f.err
}

type fakeConversationStore struct {
	turns    []models.ChatTurn
	getErr   error
	appended []models.ChatTurn
}

func (f *fakeConversationStore) Get(_ context.Context, _ string) ([]models.ChatTurn, error) {
	return f.turns, f.getErr
}

func (f *fakeConversationStore) Append(_ context.Context, _ string, turns ...models.ChatTurn) error {
	f.appended = append(f.appended, turns...)
	return nil
}

func (f *fakeConversationStore) Clear(_ context.Context, _ string) error { return nil }

func chatTestDoc() models.Itinerary {
	return models.Itinerary{
		TripSummary: "2-day trip to Rome",
		Days: []models.Day{
			{Day: 1, Date: "2026-10-01", Schedule: []models.Activity{{Time: "09:00", Activity: "Colosseum"}}},
			{Day: 2, Date: "2026-10-02", Schedule: []models.Activity{}},
		},
	}
}

func sendMessage(t *testing.T, h *ChatHandler, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/chat/send", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	h.SendMessageHandler(c)
	return w
}

func newChatFixture(log *eventLog) (*fakeChatRepo, *fakeItineraryRepo) {
	chats := &fakeChatRepo{
		log:     log,
		session: models.ChatSession{SessionID: "sess-1", ItineraryID: "itin-1", IsActive: true},
	}
	itineraries := &fakeItineraryRepo{
		log:    log,
		stored: models.StoredItinerary{ID: "itin-1", Data: chatTestDoc()},
	}
	return chats, itineraries
}

func appliedResult() *models.ChatResult {
	updated := chatTestDoc()
	updated.Days[0].Schedule = append(updated.Days[0].Schedule, models.Activity{Time: "14:00", Activity: "Custom Activity"})
	return &models.ChatResult{
		Response:         "Perfect! I've added that to your itinerary.",
		UpdatedItinerary: updated,
		EditApplied:      true,
		Edit:             &models.EditInstruction{EditType: models.EditAdd, Day: 1},
	}
}

// The stored transcript must never claim an edit the stored document does
// not carry: the document is persisted before the assistant message.
func TestSendMessage_DocumentPersistedBeforeAssistantMessage(t *testing.T) {
	log := &eventLog{}
	chats, itineraries := newChatFixture(log)
	h := NewChatHandler(chats, itineraries, &fakeTripMate{result: appliedResult()}, &fakeConversationStore{})

	w := sendMessage(t, h, map[string]string{"session_id": "sess-1", "message": "add a gelato stop"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	update := log.indexOf("update_data")
	assistant := log.indexOf("append:" + models.MessageAssistant)
	if update == -1 || assistant == -1 {
		t.Fatalf("events = %v, want both update_data and the assistant append", log.events)
	}
	if update > assistant {
		t.Errorf("events = %v: document persisted after the assistant message", log.events)
	}
	if audit := log.indexOf("save_edit"); audit == -1 || audit > assistant {
		t.Errorf("events = %v: audit record persisted after the assistant message", log.events)
	}
}

func TestSendMessage_UpdateFailureStoresNoSuccessClaim(t *testing.T) {
	log := &eventLog{}
	chats, itineraries := newChatFixture(log)
	itineraries.updateDataErr = errors.New("write concern failed")
	h := NewChatHandler(chats, itineraries, &fakeTripMate{result: appliedResult()}, &fakeConversationStore{})

	w := sendMessage(t, h, map[string]string{"session_id": "sess-1", "message": "add a gelato stop"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	for _, msg := range chats.messages {
		if msg.MessageType == models.MessageAssistant {
			t.Errorf("assistant message %q persisted despite failed document update", msg.Content)
		}
	}
	if log.indexOf("save_edit") != -1 {
		t.Errorf("events = %v: audit record persisted despite failed document update", log.events)
	}
}

// Cached turns have to reach the engine, not just be written back.
func TestSendMessage_CachedTurnsFeedTheEngine(t *testing.T) {
	log := &eventLog{}
	chats, itineraries := newChatFixture(log)
	engine := &fakeTripMate{result: &models.ChatResult{
		Response:         "The Colosseum visit is at 09:00.",
		UpdatedItinerary: chatTestDoc(),
	}}
	conversations := &fakeConversationStore{turns: []models.ChatTurn{
		{Role: models.MessageUser, Content: "what's on day one?"},
		{Role: models.MessageAssistant, Content: "Day one starts at the Colosseum."},
	}}
	h := NewChatHandler(chats, itineraries, engine, conversations)

	w := sendMessage(t, h, map[string]string{"session_id": "sess-1", "message": "what time is that?"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if len(engine.history) != 2 || engine.history[1].Content != "Day one starts at the Colosseum." {
		t.Errorf("engine history = %+v, want the cached turns", engine.history)
	}
	if len(conversations.appended) != 2 {
		t.Errorf("appended %d turns to the cache, want the new user and assistant turn", len(conversations.appended))
	}
}

func TestSendMessage_CacheFailureMeansContextFreeTurn(t *testing.T) {
	log := &eventLog{}
	chats, itineraries := newChatFixture(log)
	engine := &fakeTripMate{result: &models.ChatResult{
		Response:         "I'm here to help!",
		UpdatedItinerary: chatTestDoc(),
	}}
	engine.history = []models.ChatTurn{{Role: "sentinel", Content: "sentinel"}}
	conversations := &fakeConversationStore{getErr: errors.New("connection refused")}
	h := NewChatHandler(chats, itineraries, engine, conversations)

	w := sendMessage(t, h, map[string]string{"session_id": "sess-1", "message": "hi there"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if engine.history != nil {
		t.Errorf("engine history = %+v, want nil on a cache failure", engine.history)
	}
}
