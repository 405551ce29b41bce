package domain

import "github.com/modelcontextprotocol/go-sdk/mcp"

// CreateFusionNodeInput represents the MCP tool input for creating one node.
type CreateFusionNodeInput struct {
	NodeType string `json:"node_type" jsonschema:"Fusion tool type, e.g. Blur"`
	X        *int   `json:"x,omitempty" jsonschema:"flow X coordinate"`
	Y        *int   `json:"y,omitempty" jsonschema:"flow Y coordinate"`
}

// ChainConnectionInput represents one explicit wire in a node chain.
type ChainConnectionInput struct {
	From  int    `json:"from" jsonschema:"0-based source node index"`
	To    int    `json:"to" jsonschema:"0-based target node index"`
	Input string `json:"input" jsonschema:"target input name"`
}

// ChainFusionNodesInput represents the MCP tool input for creating a chain
// of nodes wired in order.
type ChainFusionNodesInput struct {
	NodeTypes   []string               `json:"node_types" jsonschema:"node types in chain order"`
	Connections []ChainConnectionInput `json:"connections,omitempty" jsonschema:"explicit wiring overriding the default chain"`
}

func CreateFusionNodeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_fusion_node",
		Description: "Create one node in the current composition.",
	}
}

func CreateFusionNodeHandler(d Dispatcher) mcp.ToolHandlerFor[CreateFusionNodeInput, any] {
	return runTool[CreateFusionNodeInput](d, "create_fusion_node")
}

func ChainFusionNodesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "chain_fusion_nodes",
		Description: "Create an ordered chain of nodes in the current composition.",
	}
}

func ChainFusionNodesHandler(d Dispatcher) mcp.ToolHandlerFor[ChainFusionNodesInput, any] {
	return runTool[ChainFusionNodesInput](d, "chain_fusion_nodes")
}

func GetCurrentCompTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_current_comp",
		Description: "Report the current composition.",
	}
}

func GetCurrentCompHandler(d Dispatcher) mcp.ToolHandlerFor[struct{}, any] {
	return runTool[struct{}](d, "get_current_comp")
}
