// Package rescue computes rescuer dispatch recommendations from reported
// survivor counts.
package rescue
