// Package prebuilt provides ready-made nodes for common workflow stages:
// conversation summarization, human-in-the-loop surveys, and web page
// reading.
//
// The nodes share a few state keys. [KeyConversation] holds a plain-text
// transcript of the exchange being collected, one "role: content" line per
// turn, so prompt templates can render it directly. The structured message
// log under the state package's messages key is maintained separately
// through [node.RecordMessages].
package prebuilt
