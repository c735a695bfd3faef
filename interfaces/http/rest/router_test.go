package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rickerduniya/Sayanho-sub000/application/commands/bus"
	cmdhandlers "github.com/rickerduniya/Sayanho-sub000/application/commands/handlers"
	querybus "github.com/rickerduniya/Sayanho-sub000/application/queries/bus"
	queryhandlers "github.com/rickerduniya/Sayanho-sub000/application/queries/handlers"
	"github.com/rickerduniya/Sayanho-sub000/application/services"
	"github.com/rickerduniya/Sayanho-sub000/domain/config"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/layout"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/messaging"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/persistence/schema"
	"github.com/rickerduniya/Sayanho-sub000/infrastructure/solver"
	"github.com/rickerduniya/Sayanho-sub000/pkg/auth"
	apperrors "github.com/rickerduniya/Sayanho-sub000/pkg/errors"
	"github.com/rickerduniya/Sayanho-sub000/pkg/extensions"
	"github.com/rickerduniya/Sayanho-sub000/pkg/observability"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type errorBody struct {
	Type string `json:"type"`
	Code string `json:"code"`
}

func newTestServer(t *testing.T, validator *auth.JWTValidator) (*httptest.Server, *services.Editor) {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewCollector("sld_test")
	hooks := extensions.NewHookManager()
	events := messaging.NewHookEventBus(hooks, messaging.DefaultRetention, logger)

	editor := services.NewEditor(config.DefaultDomainConfig(), solver.NewPassthroughSolver(),
		layout.NewMemoryLayoutStore(logger), events, hooks, metrics, logger)
	t.Cleanup(editor.Close)

	commandBus := bus.NewCommandBus()
	require.NoError(t, cmdhandlers.NewEditorHandlers(editor, logger).Register(commandBus))
	queryBus := querybus.NewQueryBus(querybus.MetricsMiddleware(metrics))
	require.NoError(t, queryhandlers.NewDiagramQueryHandlers(editor).Register(queryBus))

	router := NewRouter(commandBus, queryBus, apperrors.NewErrorHandler(logger, false),
		schema.NewCodec(), events, metrics, validator,
		Options{EnableMetrics: true}, logger)

	server := httptest.NewServer(router.Setup())
	t.Cleanup(server.Close)
	return server, editor
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeData(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.True(t, env.Success)
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func addItem(t *testing.T, base, itemType, key string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, base+"/api/v1/items", map[string]interface{}{
		"type":             itemType,
		"x":                100,
		"y":                100,
		"width":            40,
		"height":           40,
		"connectionPoints": map[string]interface{}{key: map[string]float64{"x": 20, "y": 0}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var item struct {
		ID string `json:"id"`
	}
	decodeData(t, resp, &item)
	require.NotEmpty(t, item.ID)
	return item.ID
}

func TestRouter_Health(t *testing.T) {
	server, _ := newTestServer(t, nil)

	for _, path := range []string{"/health", "/ready"} {
		resp := doJSON(t, http.MethodGet, server.URL+path, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "v1", resp.Header.Get("X-API-Version"))
	}

	resp := doJSON(t, http.MethodGet, server.URL+"/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_ItemsAndConnectors(t *testing.T) {
	server, editor := newTestServer(t, nil)

	feeder := addItem(t, server.URL, "MCCB", "out1")
	load := addItem(t, server.URL, "MCB", "in")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/connectors", map[string]interface{}{
		"sourceId":       feeder,
		"sourcePointKey": "out1",
		"targetId":       load,
		"targetPointKey": "in",
		"materialType":   "Cable",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var connector struct {
		ID       string `json:"id"`
		SourceID string `json:"sourceId"`
	}
	decodeData(t, resp, &connector)
	assert.Equal(t, feeder, connector.SourceID)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/connectors/"+connector.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/sheets", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sheets []struct {
		ItemCount      int `json:"itemCount"`
		ConnectorCount int `json:"connectorCount"`
	}
	decodeData(t, resp, &sheets)
	require.Len(t, sheets, 1)
	assert.Equal(t, 2, sheets[0].ItemCount)
	assert.Equal(t, 1, sheets[0].ConnectorCount)

	resp = doJSON(t, http.MethodDelete, server.URL+"/api/v1/items/"+load, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, editor.ActiveSheet().Connectors)
}

func TestRouter_RejectionCodes(t *testing.T) {
	server, _ := newTestServer(t, nil)
	id := addItem(t, server.URL, "MCB", "in")

	resp := doJSON(t, http.MethodPut, server.URL+"/api/v1/items/"+id+"/lock", map[string]bool{"locked": true})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/items/"+id+"/rotate", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var body errorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, apperrors.CodeItemLocked, body.Code)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/items/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/items", map[string]interface{}{"bogus": true})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_UndoRedo(t *testing.T) {
	server, editor := newTestServer(t, nil)
	addItem(t, server.URL, "MCB", "in")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/editor/undo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result struct {
		Applied bool `json:"applied"`
	}
	decodeData(t, resp, &result)
	assert.True(t, result.Applied)
	assert.Empty(t, editor.ActiveSheet().Items)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/editor/redo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, editor.ActiveSheet().Items, 1)
}

func TestRouter_LayoutStagingFollowsItemDrop(t *testing.T) {
	server, _ := newTestServer(t, nil)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/layout", map[string]interface{}{
		"id": "lc-1", "itemType": "DB", "x": 3, "y": 4,
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/layout", map[string]interface{}{"id": "lc-1", "itemType": "DB"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/v1/items", map[string]interface{}{
		"type": "DB", "width": 40, "height": 40, "layoutComponentId": "lc-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/layout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var components []struct {
		ID     string `json:"id"`
		Placed bool   `json:"placed"`
	}
	decodeData(t, resp, &components)
	require.Len(t, components, 1)
	assert.Equal(t, "lc-1", components[0].ID)
	assert.True(t, components[0].Placed)
}

func TestRouter_DocumentImportExport(t *testing.T) {
	server, editor := newTestServer(t, nil)

	legacy := `[{"id": "s1", "name": "Main",
		"items": [{"id": "a", "type": "MCCB", "properties": {"Voltage": "415V"}, "connectionPoints": {"out": {"x": 40, "y": 20}}}],
		"connectors": [{"id": "c1", "sourceId": "a", "sourcePointKey": "out", "targetId": "gone", "targetPointKey": "in", "materialType": "Cable"}]}]`
	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/v1/document", bytes.NewBufferString(legacy))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var load struct {
		DroppedConnectors int `json:"droppedConnectors"`
	}
	decodeData(t, resp, &load)
	assert.Equal(t, 1, load.DroppedConnectors)
	require.Len(t, editor.ActiveSheet().Items, 1)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/document", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var doc schema.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, schema.CurrentVersion, doc.Version)
	require.Len(t, doc.Sheets, 1)
	assert.Equal(t, "Main", doc.Sheets[0].Name)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/document/events?limit=5", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/v1/document/events?limit=x", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_Authentication(t *testing.T) {
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "test-secret", Issuer: "sld-engine", TTL: time.Hour})
	require.NoError(t, err)
	server, _ := newTestServer(t, validator)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/v1/sheets", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := validator.GenerateToken("user-1", []string{"editor"})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/v1/sheets", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// health stays open
	resp = doJSON(t, http.MethodGet, server.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
