// Package exec is the runtime surface generated handlers compile against.
//
// A handler acquires a Session from a Source (optionally keyed by the
// descriptor's data-source key), builds a Command from the synthesized
// command text, execution mode and parameter projection, and invokes one of
// the execution strategies:
//
//	sess.Execute(ctx, cmd)        // non-query, affected-row count
//	exec.Scalar[int64](ctx, sess, cmd)
//	exec.One[User](ctx, sess, cmd)
//	exec.Many[User](ctx, sess, cmd)
//
// DB implements Session on top of database/sql with @name parameter markers
// bound by resolved parameter name. Custom Session implementations can back
// generated code with any driver or transport.
package exec
