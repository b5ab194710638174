package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/storycraft/roller/internal/api"
	"github.com/storycraft/roller/internal/dice"
	domainroll "github.com/storycraft/roller/internal/domain/roll"
	rerr "github.com/storycraft/roller/internal/errors"
	"github.com/storycraft/roller/internal/observability"
	"github.com/storycraft/roller/internal/repositories/feed"
	mockcharacter "github.com/storycraft/roller/internal/services/character/mock"
	rollService "github.com/storycraft/roller/internal/services/roll"
	mockroll "github.com/storycraft/roller/internal/services/roll/mock"
	"github.com/storycraft/roller/internal/testutils"
)

type HandlerTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	mockChars *mockcharacter.MockService
	mockRolls *mockroll.MockService
	metrics   *observability.Metrics
	handler   http.Handler
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockChars = mockcharacter.NewMockService(s.ctrl)
	s.mockRolls = mockroll.NewMockService(s.ctrl)
	s.metrics = observability.NewMetrics()
	s.handler = api.NewHandler(&api.Config{
		Characters: s.mockChars,
		Rolls:      s.mockRolls,
		Metrics:    s.metrics,
	})
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerTestSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (s *HandlerTestSuite) TestExecuteAction() {
	char := testutils.CreateTestCharacter("char-1", "player-1", "Lia")
	msg := &domainroll.Message{Title: "Bola de Fogo", DisplayText: "**Result: 9**"}

	s.mockRolls.EXPECT().
		ExecuteAction(gomock.Any(), &rollService.ExecuteActionInput{
			CharacterID: "char-1",
			ActionName:  "Bola de Fogo",
			FeedID:      "mesa-1",
		}).
		Return(&rollService.ExecuteActionOutput{
			Result:        &domainroll.Result{Action: "Bola de Fogo", Total: 9},
			Message:       msg,
			Character:     char,
			Entry:         &feed.Entry{ID: "entry-1", FeedID: "mesa-1"},
			DispatchError: errors.New("webhook down"),
			Fallback:      msg.PlainText(),
		}, nil)

	rec := s.do(http.MethodPost, "/characters/char-1/actions/Bola%20de%20Fogo/roll", `{"feed_id":"mesa-1"}`)

	s.Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	s.Equal("entry-1", body["entry_id"])
	s.Equal("webhook down", body["dispatch_error"])
	s.Equal("Bola de Fogo\n**Result: 9**", body["fallback"])
	s.Equal(float64(9), body["result"].(map[string]any)["total"])
}

func (s *HandlerTestSuite) TestExecuteAction_EmptyBody() {
	s.mockRolls.EXPECT().
		ExecuteAction(gomock.Any(), &rollService.ExecuteActionInput{CharacterID: "char-1", ActionName: "Golpe"}).
		Return(nil, rerr.NotFound("action 'Golpe' not found"))

	rec := s.do(http.MethodPost, "/characters/char-1/actions/Golpe/roll", "")

	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("not_found", s.decode(rec)["code"])
}

func (s *HandlerTestSuite) TestExecuteAction_Blocked() {
	s.mockRolls.EXPECT().ExecuteAction(gomock.Any(), gomock.Any()).
		Return(nil, rerr.WrapWithCode(&domainroll.InsufficientResourcesError{
			Needed: domainroll.ResourceCost{MP: 3},
		}, rerr.CodeFailedPrecondition, "cannot execute action"))

	rec := s.do(http.MethodPost, "/characters/char-1/actions/Golpe/roll", "{}")

	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Contains(s.decode(rec)["error"], "insufficient resources")
}

func (s *HandlerTestSuite) TestRollFormula() {
	s.mockRolls.EXPECT().
		RollFormula(gomock.Any(), &rollService.RollFormulaInput{Formula: "2d6+1", FeedID: "mesa-1", Author: "Mestre"}).
		Return(&rollService.RollFormulaOutput{
			Result:  &dice.FormulaResult{Formula: "2d6+1", Expression: "8+1", Total: 9},
			Message: &domainroll.Message{Title: "2d6+1"},
			Entry:   &feed.Entry{ID: "entry-2", FeedID: "mesa-1"},
		}, nil)

	rec := s.do(http.MethodPost, "/formula", `{"formula":"2d6+1","feed_id":"mesa-1","author":"Mestre"}`)

	s.Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	s.Equal(float64(9), body["formula"].(map[string]any)["total"])
	s.NotContains(body, "fallback")
}

func (s *HandlerTestSuite) TestRollFormula_BadBody() {
	rec := s.do(http.MethodPost, "/formula", `{"formula":`)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/formula", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestListFeed() {
	s.mockRolls.EXPECT().ListFeed(gomock.Any(), "mesa-1", 5).Return([]*feed.Entry{{ID: "entry-1"}}, nil)
	s.mockRolls.EXPECT().ListFeed(gomock.Any(), "vazia", 0).Return(nil, nil)

	rec := s.do(http.MethodGet, "/feeds/mesa-1?limit=5", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Len(s.decode(rec)["entries"], 1)

	rec = s.do(http.MethodGet, "/feeds/vazia", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal([]any{}, s.decode(rec)["entries"])

	rec = s.do(http.MethodGet, "/feeds/mesa-1?limit=abc", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestGetCharacter() {
	s.mockChars.EXPECT().Get(gomock.Any(), "char-1").Return(testutils.CreateTestCharacter("char-1", "player-1", "Lia"), nil)

	rec := s.do(http.MethodGet, "/characters/char-1", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Lia", s.decode(rec)["name"])
}

func (s *HandlerTestSuite) TestToggleBuff() {
	char := testutils.CreateTestCharacter("char-1", "player-1", "Lia")
	char.Buffs[0].IsActive = true
	s.mockChars.EXPECT().ToggleBuff(gomock.Any(), "char-1", "Fúria", true).Return(char, nil)

	rec := s.do(http.MethodPut, "/characters/char-1/buffs/F%C3%BAria", `{"active":true}`)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPut, "/characters/char-1/buffs/F%C3%BAria", `{}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestMethodNotAllowed() {
	rec := s.do(http.MethodDelete, "/formula", "")
	s.Equal(http.StatusMethodNotAllowed, rec.Code)
}

func (s *HandlerTestSuite) TestMetrics() {
	s.metrics.RollExecuted(12)

	rec := s.do(http.MethodGet, "/metrics", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `storycraft_rolls_total{outcome="executed"} 1`)
}

func TestHandler_RecoversPanics(t *testing.T) {
	ctrl := gomock.NewController(t)
	rolls := mockroll.NewMockService(ctrl)
	rolls.EXPECT().ListFeed(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, int) ([]*feed.Entry, error) {
			panic("boom")
		})

	handler := api.NewHandler(&api.Config{Characters: mockcharacter.NewMockService(ctrl), Rolls: rolls})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feeds/mesa", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNewHandler_RequiresServices(t *testing.T) {
	require.Panics(t, func() { api.NewHandler(&api.Config{}) })
}
