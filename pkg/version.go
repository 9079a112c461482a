package daybook

// Version is the application version reported by the CLI and the MCP server.
const Version = "v0.2.0"
