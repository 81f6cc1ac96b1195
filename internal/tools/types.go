// Package tools defines the fixed catalog of task-manager operations the
// assistant may call, the provider-agnostic schema types describing them,
// and the executor that performs the remote CRUD calls.
package tools

// ToolTypeFunction is the standard type for function-based tools.
const ToolTypeFunction = "function"

// Tool is the schema for one callable operation, in the common
// function-calling format understood by the model provider.
type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

// Function carries the name, description and parameter schema of a tool.
// The model selects tools based on the description, so it must state
// clearly what the operation does.
type Function struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  JSONSchema `json:"parameters"`
}

// JSONSchema is a typed subset of JSON Schema sufficient for describing
// tool parameters. Using a struct instead of map[string]interface{} keeps
// the ten definitions readable and catches shape errors at compile time.
type JSONSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Items       *JSONSchema            `json:"items,omitempty"`
	Required    []string               `json:"required,omitempty"`
}

// ToolCall is a model-emitted request to invoke a tool. The ID links the
// eventual result message back to this request.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction holds the requested tool name and its arguments as a
// JSON object string. The arguments come from the model and are untrusted
// until unmarshalled against the tool's parameter struct.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// NewFunctionTool builds a Tool with the standard "function" type.
func NewFunctionTool(name, description string, parameters JSONSchema) Tool {
	return Tool{
		Type: ToolTypeFunction,
		Function: Function{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}
