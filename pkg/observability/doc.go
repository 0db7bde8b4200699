/*
Package observability provides lifecycle hooks for monitoring a Viewer.

Hooks are plain callbacks (see domain.LifecycleHooks). This package ships a
logging implementation and a combinator so several sinks, such as logs and
Prometheus metrics, can observe the same viewer.
*/
package observability
