// Package http exposes the metric query surface over chi. Every endpoint
// responds with the uniform envelope: {"success":true,"data":...} on
// success and {"success":false,"error":...} on failure.
package http
