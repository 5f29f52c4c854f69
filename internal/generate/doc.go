// Package generate produces learning plans and pedagogy suggestions.
//
// Two providers exist. The remote provider forwards requests to the product's
// generator services; the openai provider asks a chat-completion model
// directly. Both return free text, which SplitLines turns into display lines.
package generate
