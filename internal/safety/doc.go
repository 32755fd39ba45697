// Package safety classifies proposed shell commands and MCP tool names as
// provably read-only, gating autonomous tool execution in safemode's
// reduced-trust mode.
//
// The input is adversarial by design: the proposer is an LLM whose command
// strings may look like harmless reads while their shell semantics mutate,
// exfiltrate, or execute. The classifier therefore never reasons about what
// a command probably does; it only allows what it can prove, and everything
// else is rejected.
//
// # Pipeline
//
// Classification runs in fixed stages, stopping at the first rejection:
//
//  1. Lexical guard: the raw text is scanned for live command, backtick,
//     and process substitution and for control characters, before any
//     parsing. See HasDangerousSubstitution and HasDangerousControlChars.
//  2. Grammar adapter: mvdan.cc/sh parses the text with the bash grammar
//     and ParseScript lowers it into this package's compact Script tree.
//     Parse failures and unsupported constructs are rejections.
//  3. Structural validation: the tree is walked recursively. Backgrounding
//     is banned, output redirection is allowed only to /dev/null, and
//     every pipeline stage, chained statement, and subshell must
//     independently validate.
//  4. Pattern matching: each leaf command's reconstructed text must fully
//     match one of the configured allow-list patterns. No pattern, no
//     match: deny-by-default.
//
// Rejections carry a typed RejectionReason; for allow-list misses the
// diagnostics engine attaches related patterns and a mismatch analysis so
// FormatRejectionMessage can explain where the command diverged from an
// allowed shape.
//
// # Purity
//
//	decision := safety.Classify(command, cfg)
//
// Classify is a pure function of (command, *ModeConfig). ModeConfig
// snapshots are immutable; config reload replaces the pointer wholesale, so
// concurrent classifications never observe a partially updated policy and
// no locking is needed anywhere in this package.
package safety
