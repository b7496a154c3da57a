// Package services holds helpers shared by wrappers around external tools:
// the failure-classification sentinels and error wrapping used across stages.
package services
