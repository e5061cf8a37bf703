// Package infra contains technical adapters such as the CSV codecs,
// the H3 grid resolver and the tracking stores. These packages should
// depend only on the interfaces and types defined in the core packages.
package infra
