package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubReconcileQueue struct {
	pending    int
	pendingErr error
	enqueued   []string
}

func (s *stubReconcileQueue) EnqueueReconcile(ctx context.Context, department string) error {
	s.enqueued = append(s.enqueued, department)
	return nil
}

func (s *stubReconcileQueue) GetPendingTaskCount() (int, error) {
	return s.pending, s.pendingErr
}

func TestReconcileHandler_QueueStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	serve := func(h *ReconcileHandler) *httptest.ResponseRecorder {
		engine := gin.New()
		engine.GET("/queue/status", h.QueueStatus)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/queue/status", nil))
		return w
	}

	t.Run("reports the pending depth", func(t *testing.T) {
		h := NewReconcileHandler(nil, &stubReconcileQueue{pending: 3})

		w := serve(h)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"pending": 3}`, w.Body.String())
	})

	t.Run("no queue means nothing pending", func(t *testing.T) {
		h := NewReconcileHandler(nil, nil)

		w := serve(h)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"pending": 0}`, w.Body.String())
	})

	t.Run("queue read failures surface as errors", func(t *testing.T) {
		h := NewReconcileHandler(nil, &stubReconcileQueue{pendingErr: assert.AnError})

		w := serve(h)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestReconcileHandler_TriggerQueuesByDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)

	queue := &stubReconcileQueue{}
	h := NewReconcileHandler(nil, queue)

	engine := gin.New()
	engine.POST("/reconcile/:department", h.Trigger)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reconcile/Laser", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"Laser"}, queue.enqueued)
}
