package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingWriter struct {
	*httptest.ResponseRecorder
	writeHeaders int
}

func (w *countingWriter) WriteHeader(status int) {
	w.writeHeaders++
	w.ResponseRecorder.WriteHeader(status)
}

func TestSendJSONOrLogStatus(t *testing.T) {
	log, _ := test.NewNullLogger()
	w := &countingWriter{ResponseRecorder: httptest.NewRecorder()}

	sendJSONOrLog(w, log, http.StatusCreated, map[string]int{"a": 1})

	assert.Equal(t, 1, w.writeHeaders)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"application/json"}, w.Result().Header.Values("Content-Type"))
	assert.JSONEq(t, `{"a":1}`, w.Body.String())
}

func TestSendJSONOrLogMarshalFailure(t *testing.T) {
	log, hook := test.NewNullLogger()
	w := &countingWriter{ResponseRecorder: httptest.NewRecorder()}

	sendJSONOrLog(w, log, http.StatusCreated, make(chan int))

	assert.Equal(t, 1, w.writeHeaders)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Body.String())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestSendError(t *testing.T) {
	log, _ := test.NewNullLogger()
	rec := httptest.NewRecorder()

	sendError(rec, log, http.StatusBadRequest, errBadSessionId)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"invalid game session id"}`, rec.Body.String())
}
