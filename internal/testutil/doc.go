// Package testutil provides a fake analysis server and shared fixtures for
// tests that exercise the REST client end to end.
//
// The harness serves the component, task queue, branch, binding and quality
// gate endpoints from an in-memory store that tests mutate between polls:
//
//	h := testutil.NewTestHarness(t)
//	defer h.Cleanup()
//	h.AddProject("foo", "Foo", "2025-01-01T10:00:00+0000")
//	h.SetQueue("foo", tasks.Queue{Queue: []tasks.Task{{ID: "t1", Type: tasks.TypeReport, Status: tasks.StatusInProgress}}})
package testutil
