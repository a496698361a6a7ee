package expressivo_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/expressivo"
)

// ============================================================
// JSON Serialization tests
// ============================================================

func TestToJSON_Num(t *testing.T) {
	j, err := expressivo.ToJSON(num(t, "2.50"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"num","value":"2.5"}`, j)
}

func TestToJSON_Product(t *testing.T) {
	j, err := expressivo.ToJSON(expressivo.MustParse("(x+1)*y"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"product","factors":[
		{"type":"sum","terms":[{"type":"var","name":"x"},{"type":"num","value":"1"}]},
		{"type":"var","name":"y"}]}`, j)
}

func TestFromJSON_RoundTrip(t *testing.T) {
	original := expressivo.MustParse("a*(b+2.5)*c+d")
	j, err := expressivo.ToJSON(original)
	require.NoError(t, err)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(j), &data))
	restored, err := expressivo.FromJSON(data)
	require.NoError(t, err)
	assert.True(t, restored.Equal(original), "restored %s", restored)
}

func TestFromJSON_FlattensNestedOperands(t *testing.T) {
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"type":"sum","terms":[
		{"type":"sum","terms":[{"type":"var","name":"a"},{"type":"var","name":"b"}]},
		{"type":"var","name":"c"}]}`), &data))
	e, err := expressivo.FromJSON(data)
	require.NoError(t, err)
	assert.True(t, e.Equal(expressivo.MustParse("a+b+c")))
}

func TestFromJSON_Invalid(t *testing.T) {
	tests := []struct {
		doc  string
		want error
	}{
		{`{}`, expressivo.ErrInvalidInput},
		{`{"type":""}`, expressivo.ErrInvalidInput},
		{`{"type":"pow"}`, expressivo.ErrInvalidInput},
		{`{"type":"num"}`, expressivo.ErrInvalidInput},
		{`{"type":"num","value":"-1"}`, expressivo.ErrInvalidNumber},
		{`{"type":"var","name":"x9"}`, expressivo.ErrInvalidName},
		{`{"type":"sum","terms":[{"type":"var","name":"x"}]}`, expressivo.ErrInvalidInput},
		{`{"type":"product","factors":"x"}`, expressivo.ErrInvalidInput},
		{`{"type":"product","factors":[1,2]}`, expressivo.ErrInvalidInput},
		{`{"type":"sum","terms":[{"type":"var","name":"x"},{"type":"var","name":"y1"}]}`, expressivo.ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			var data map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(tt.doc), &data))
			_, err := expressivo.FromJSON(data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	_, err := expressivo.FromJSON(nil)
	assert.ErrorIs(t, err, expressivo.ErrInvalidInput)
}

// ============================================================
// Tool call tests
// ============================================================

func TestHandleToolCall_Parse(t *testing.T) {
	resp := expressivo.HandleToolCall(expressivo.ToolRequest{
		Tool:   "parse",
		Params: map[string]interface{}{"expr": " (a + b) * ((c)) "},
	})
	assert.Empty(t, resp.Error)
	assert.Equal(t, "(a+b)*c", resp.String)
	assert.Equal(t, `\left(a + b\right) \cdot c`, resp.LaTeX)
}

func TestHandleToolCall_Differentiate(t *testing.T) {
	resp := expressivo.HandleToolCall(expressivo.ToolRequest{
		Tool:   "differentiate",
		Params: map[string]interface{}{"expr": "x*x", "var": "x"},
	})
	assert.Empty(t, resp.Error)
	assert.Equal(t, "x*1+1*x", resp.String)
}

func TestHandleToolCall_DifferentiateJSONExpr(t *testing.T) {
	resp := expressivo.HandleToolCall(expressivo.ToolRequest{
		Tool: "differentiate",
		Params: map[string]interface{}{
			"expr": map[string]interface{}{"type": "var", "name": "x"},
			"var":  "x",
		},
	})
	assert.Empty(t, resp.Error)
	assert.Equal(t, "1", resp.String)
}

func TestHandleToolCall_Simplify(t *testing.T) {
	resp := expressivo.HandleToolCall(expressivo.ToolRequest{
		Tool: "simplify",
		Params: map[string]interface{}{
			"expr": "abc*abc+(2+3*abc)+y",
			"env":  map[string]interface{}{"abc": 2.5, "y": "0.25"},
		},
	})
	assert.Empty(t, resp.Error)
	assert.Equal(t, "16", resp.String)
}

func TestHandleToolCall_SimplifyBadEnv(t *testing.T) {
	resp := expressivo.HandleToolCall(expressivo.ToolRequest{
		Tool: "simplify",
		Params: map[string]interface{}{
			"expr": "x",
			"env":  map[string]interface{}{"x": -1.0, "y": true},
		},
	})
	assert.Contains(t, resp.Error, "env.x")
	assert.Contains(t, resp.Error, "env.y")
}

func TestHandleToolCall_FreeSymbols(t *testing.T) {
	resp := expressivo.HandleToolCall(expressivo.ToolRequest{
		Tool:   "free_symbols",
		Params: map[string]interface{}{"expr": "y*x+x+2"},
	})
	assert.Empty(t, resp.Error)
	assert.Equal(t, []string{"x", "y"}, resp.Result)
}

func TestHandleToolCall_Equal(t *testing.T) {
	resp := expressivo.HandleToolCall(expressivo.ToolRequest{
		Tool:   "equal",
		Params: map[string]interface{}{"a": "(a+b)+c", "b": "a+(b+c)"},
	})
	assert.Empty(t, resp.Error)
	assert.Equal(t, true, resp.Result)

	resp = expressivo.HandleToolCall(expressivo.ToolRequest{
		Tool:   "equal",
		Params: map[string]interface{}{"a": "a+b", "b": "b+a"},
	})
	assert.Equal(t, false, resp.Result)
}

func TestHandleToolCall_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  expressivo.ToolRequest
	}{
		{"unknown tool", expressivo.ToolRequest{Tool: "nonexistent", Params: map[string]interface{}{}}},
		{"missing expr", expressivo.ToolRequest{Tool: "parse", Params: map[string]interface{}{}}},
		{"bad expr", expressivo.ToolRequest{Tool: "parse", Params: map[string]interface{}{"expr": "a 9"}}},
		{"expr of wrong type", expressivo.ToolRequest{Tool: "parse", Params: map[string]interface{}{"expr": 3.0}}},
		{"missing var", expressivo.ToolRequest{Tool: "differentiate", Params: map[string]interface{}{"expr": "x"}}},
		{"bad var", expressivo.ToolRequest{Tool: "differentiate", Params: map[string]interface{}{"expr": "x", "var": "x y"}}},
		{"env of wrong type", expressivo.ToolRequest{Tool: "simplify", Params: map[string]interface{}{"expr": "x", "env": "x=1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := expressivo.HandleToolCall(tt.req)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestMCPToolSpec(t *testing.T) {
	var spec struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(expressivo.MCPToolSpec()), &spec))
	names := make([]string, len(spec.Tools))
	for i, tool := range spec.Tools {
		names[i] = tool.Name
	}
	assert.ElementsMatch(t, expressivo.ToolNames(), names)
	assert.Contains(t, names, "differentiate")
	assert.Contains(t, names, "simplify")
}
