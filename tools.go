package expressivo

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// ============================================================
// MCP Tool Interface
// ============================================================

// ToolRequest names a tool and its parameters.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

// ToolResponse carries a tool result, its renderings, or an error message.
type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// HandleToolCall runs one tool. Expressions are passed either as text or as
// the object form of ToJSON. Failures are reported in ToolResponse.Error.
func HandleToolCall(req ToolRequest) ToolResponse {
	getExpr := func(key string) (Expr, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		switch val := v.(type) {
		case string:
			return Parse(val)
		case map[string]interface{}:
			return FromJSON(val)
		}
		return nil, fmt.Errorf("param %s must be expression text or object", key)
	}
	getVar := func(key string) (*Var, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("param %s must be a string", key)
		}
		return MakeVar(s)
	}
	getEnv := func(key string) (Env, error) {
		v, ok := req.Params[key]
		if !ok {
			return Env{}, nil
		}
		raw, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s must be an object", key)
		}
		env := Env{}
		var result *multierror.Error
		for _, name := range sortedKeys(raw) {
			var (
				n   *Num
				err error
			)
			switch val := raw[name].(type) {
			case float64:
				n, err = NumFromFloat(val)
			case string:
				n, err = NumFromString(val)
			default:
				err = errors.Wrapf(ErrInvalidNumber, "%v", val)
			}
			if err == nil {
				err = env.Set(name, n)
			}
			if err != nil {
				result = multierror.Append(result, errors.Wrapf(err, "%s.%s", key, name))
			}
		}
		if err := result.ErrorOrNil(); err != nil {
			return nil, err
		}
		return env, nil
	}
	respond := func(e Expr) ToolResponse {
		return ToolResponse{Result: e.toJSON(), LaTeX: LaTeX(e), String: String(e)}
	}

	switch req.Tool {
	case "parse":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(e)

	case "differentiate":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		v, err := getVar("var")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(Differentiate(e, v))

	case "simplify":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		env, err := getEnv("env")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(Simplify(e, env))

	case "to_latex":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: LaTeX(e), LaTeX: LaTeX(e), String: String(e)}

	case "free_symbols":
		e, err := getExpr("expr")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		syms := FreeSymbols(e)
		names := sortedKeys(syms)
		return ToolResponse{Result: names, String: fmt.Sprint(names)}

	case "equal":
		a, err := getExpr("a")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		b, err := getExpr("b")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		eq := Equal(a, b)
		return ToolResponse{Result: eq, String: fmt.Sprint(eq)}

	case "mcp_spec":
		return ToolResponse{Result: MCPToolSpec(), String: "MCP tool schema"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// ToolNames lists the tools understood by HandleToolCall.
func ToolNames() []string {
	names := make([]string, 0, len(toolSpecs))
	for _, t := range toolSpecs {
		names = append(names, t.name)
	}
	sort.Strings(names)
	return names
}

type toolSpec struct {
	name        string
	description string
	required    []string
	props       map[string]string
}

var toolSpecs = []toolSpec{
	{"parse", "Parse expression text into its canonical form", []string{"expr"}, map[string]string{"expr": "string"}},
	{"differentiate", "Derivative with respect to a variable, zero and identity terms kept", []string{"expr", "var"}, map[string]string{"expr": "string", "var": "string"}},
	{"simplify", "Substitute variables from env and fold numeric groups", []string{"expr"}, map[string]string{"expr": "string", "env": "object"}},
	{"to_latex", "Convert to LaTeX", []string{"expr"}, map[string]string{"expr": "string"}},
	{"free_symbols", "Return variable names in sorted order", []string{"expr"}, map[string]string{"expr": "string"}},
	{"equal", "Structural equality of two expressions", []string{"a", "b"}, map[string]string{"a": "string", "b": "string"}},
	{"mcp_spec", "Return this tool schema", []string{}, map[string]string{}},
}

// MCPToolSpec returns the JSON schema of every tool.
func MCPToolSpec() string {
	tools := make([]map[string]interface{}, len(toolSpecs))
	for i, t := range toolSpecs {
		tools[i] = ts(t.name, t.description, t.required, t.props)
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
