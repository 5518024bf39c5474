// Package catalog builds the full, unfiltered set of capability descriptors
// for a candidate: one data tool and one readable resource per optional
// profile field, the interview-assistance tools, the conversation prompts and
// the contact tool.
//
// Builders are pure. They do not look at which fields are populated; deciding
// what to bind is the job of package compose. Handlers read the shared
// profile at invocation time and fall back to a "not available" text when a
// field is empty.
package catalog
