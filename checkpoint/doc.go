// Package checkpoint persists pipeline positions. A position tape is
// serialized with a compact binary codec and stored one file per pipeline
// name, so a training job can stop at any point and resume from the last
// saved position after a restart.
package checkpoint
