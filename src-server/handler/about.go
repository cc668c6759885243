// This package contains the Discord Interaction handlers that don't own any
// state: /ping and /run_diagnostics. The order form lives in order_handler.
//
// There should be 2 functions per handler, one for adding the handler &
// information to send to Discord (public), and one for handling the
// interaction (private).
//
// Only return errors when it's the backend's fault, nil if user's fault.
package handler
