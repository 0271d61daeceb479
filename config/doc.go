// Package config loads and validates pipeline configuration from a YAML
// file, an optional .env overlay, and FAIRSEQ2_-prefixed environment
// variables. The Pipeline section can be applied directly to a pipeline
// builder, so a training job's data layer is assembled from configuration
// alone.
package config
