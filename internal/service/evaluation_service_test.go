package service

import (
	"context"
	"encoding/json"
	"testing"

	"ai-recall-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvaluationResponse(t *testing.T) {
	score, analysis, err := ParseEvaluationResponse("Score: 0.85\nEvaluation: Accurate and well structured.")
	require.NoError(t, err)
	assert.InDelta(t, 0.85, score, 1e-9)
	assert.Equal(t, "Accurate and well structured.", analysis)
}

func TestParseEvaluationResponseMultilineAnalysis(t *testing.T) {
	content := "Score: 0.6\nEvaluation: Mostly relevant.\nMisses one edge case though."
	score, analysis, err := ParseEvaluationResponse(content)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, score, 1e-9)
	assert.Equal(t, "Mostly relevant. Misses one edge case though.", analysis)
}

func TestParseEvaluationResponseClampsScore(t *testing.T) {
	score, _, err := ParseEvaluationResponse("Score: 1.7\nEvaluation: Over-enthusiastic model.")
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	score, _, err = ParseEvaluationResponse("Score: -0.3\nEvaluation: Under-enthusiastic model.")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestParseEvaluationResponseMalformed(t *testing.T) {
	cases := map[string]string{
		"no score line":      "Evaluation: fine.",
		"no evaluation line": "Score: 0.5",
		"non-numeric score":  "Score: high\nEvaluation: fine.",
		"empty reply":        "",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseEvaluationResponse(content)
			require.Error(t, err)
			var evalErr *EvaluationError
			assert.ErrorAs(t, err, &evalErr)
		})
	}
}

func newEvaluationServiceForTest(factory *fakeFactory, model *stubLLM) *evaluationService {
	return &evaluationService{
		topicName:       "evaluate_context",
		uowFactory:      factory,
		llmProvider:     model,
		evaluationModel: "gpt-4o-mini",
		log:             nopLogger{},
	}
}

func evaluationMessage(t *testing.T, noteId uuid.UUID) *message.Message {
	t.Helper()
	payload, err := json.Marshal(dto.EvaluateContextMessage{
		NoteId:   noteId,
		Prompt:   "explain the highlight",
		Response: "a generated explanation",
	})
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), payload)
}

func TestEvaluationServiceProcessMessageStoresEvaluation(t *testing.T) {
	factory := newFakeFactory()
	model := &stubLLM{generateResp: "Score: 0.9\nEvaluation: Relevant and clear."}
	svc := newEvaluationServiceForTest(factory, model)

	noteId := uuid.New()
	svc.processMessage(context.Background(), evaluationMessage(t, noteId))

	stored, err := factory.uow.evaluations.GetByNoteID(context.Background(), noteId)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.InDelta(t, 0.9, stored[0].Score, 1e-9)
	assert.Equal(t, "Relevant and clear.", stored[0].Analysis)
	assert.Equal(t, "gpt-4o-mini", stored[0].ModelName)
	assert.Equal(t, "explain the highlight", stored[0].Prompt)
}

func TestEvaluationServiceProcessMessageDropsUnparseableReply(t *testing.T) {
	factory := newFakeFactory()
	model := &stubLLM{generateResp: "I refuse to follow formats."}
	svc := newEvaluationServiceForTest(factory, model)

	noteId := uuid.New()
	svc.processMessage(context.Background(), evaluationMessage(t, noteId))

	stored, err := factory.uow.evaluations.GetByNoteID(context.Background(), noteId)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestEvaluationServiceProcessMessageDropsBadPayload(t *testing.T) {
	factory := newFakeFactory()
	svc := newEvaluationServiceForTest(factory, &stubLLM{generateResp: "Score: 1.0\nEvaluation: n/a"})

	msg := message.NewMessage(watermill.NewUUID(), []byte("{not json"))
	svc.processMessage(context.Background(), msg)

	recent, err := factory.uow.evaluations.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestEvaluationServiceListRecent(t *testing.T) {
	factory := newFakeFactory()
	model := &stubLLM{generateResp: "Score: 0.8\nEvaluation: Good."}
	svc := newEvaluationServiceForTest(factory, model)

	for range 3 {
		svc.processMessage(context.Background(), evaluationMessage(t, uuid.New()))
	}

	recent, err := svc.ListRecent(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
