// Package internaldefs holds the metric name and help-text definitions
// shared by the exporters. It exists so the Prometheus and OTel bridges
// agree on names without either importing the other.
package internaldefs
