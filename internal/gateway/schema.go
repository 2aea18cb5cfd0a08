package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/invopop/jsonschema"
)

// schemaTypes lists the wire messages published as JSON Schemas.
var schemaTypes = map[string]any{
	"create_request":  new(CreateRequest),
	"create_response": new(CreateResponse),
	"reset_request":   new(ResetRequest),
	"reset_response":  new(ResetResponse),
	"step_request":    new(StepRequest),
	"step_response":   new(StepResponse),
	"session_info":    new(SessionInfo),
	"error_response":  new(ErrorResponse),
	"ws_client":       new(ClientMessage),
	"ws_server":       new(ServerMessage),
}

// SchemaNames returns the names accepted by Schema, sorted.
func SchemaNames() []string {
	names := make([]string, 0, len(schemaTypes))
	for name := range schemaTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schema reflects the JSON Schema of a named wire message.
func Schema(name string) (*jsonschema.Schema, error) {
	v, ok := schemaTypes[name]
	if !ok {
		return nil, fmt.Errorf("gateway: unknown schema %q", name)
	}
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
	}
	schema := reflector.Reflect(v)
	schema.Title = "Neon Ride " + name
	return schema, nil
}

// WriteSchemas writes every wire schema as one indented JSON object keyed by name.
func WriteSchemas(w io.Writer) error {
	out := make(map[string]*jsonschema.Schema, len(schemaTypes))
	for _, name := range SchemaNames() {
		s, err := Schema(name)
		if err != nil {
			return err
		}
		out[name] = s
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("gateway: marshal schemas: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("gateway: write schemas: %w", err)
	}
	return nil
}
