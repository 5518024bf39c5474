// Package compose is the composition engine. It takes a candidate Profile
// and server Settings, decides which entries of the fixed catalog are active,
// and registers them with a transport through mcpservice.Registrar.
//
// The rules are few:
//
//   - a profile field that holds a value gets both its data tool and its
//     resource; an empty field gets neither
//   - contact_candidate is bound only when contact email, relay domain and
//     relay credential are all set
//   - prompts and interview tools are always bound
//
// Binding runs once, before a transport accepts connections. Any failure is
// returned to the caller, which is expected to abort startup.
package compose
