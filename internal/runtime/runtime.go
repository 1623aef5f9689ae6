// Package runtime embeds the two pre-compiled LLVM IR blobs the engine
// parses and links: Initial (the seed module the Translator writes into)
// and Generated (the runtime support library linked in after
// translation). Their content is opaque to the engine — it only parses
// and links them — but they must be embedded at build time rather than
// read from disk, since the engine carries no notion of an installation
// path.
package runtime

import _ "embed"

//go:embed initial.ll
var Initial []byte

//go:embed generated.ll
var Generated []byte
