package rabbitmq

import "testing"

// The publisher and the worker both declare the job queues from the same
// topology. The broker rejects redeclaring a queue with different arguments,
// so the layout must be internally consistent: retry dead-letters back to the
// main queue, the main queue dead-letters to the DLQ.
func TestTopologyFor_DeadLetterWiring(t *testing.T) {
	specs := topologyFor("completion_jobs")
	if len(specs) != 3 {
		t.Fatalf("expected 3 queue declarations, got %d", len(specs))
	}

	byName := make(map[string]queueSpec, len(specs))
	for _, q := range specs {
		byName[q.name] = q
	}

	dlq, ok := byName["completion_jobs.dlq"]
	if !ok {
		t.Fatal("missing DLQ declaration")
	}
	if dlq.args != nil {
		t.Fatalf("DLQ should carry no arguments, got %v", dlq.args)
	}

	retry, ok := byName["completion_jobs.retry"]
	if !ok {
		t.Fatal("missing retry queue declaration")
	}
	if got := retry.args["x-dead-letter-routing-key"]; got != "completion_jobs" {
		t.Fatalf("retry queue should dead-letter to the main queue, got %v", got)
	}

	main, ok := byName["completion_jobs"]
	if !ok {
		t.Fatal("missing main queue declaration")
	}
	if got := main.args["x-dead-letter-routing-key"]; got != "completion_jobs.dlq" {
		t.Fatalf("main queue should dead-letter to the DLQ, got %v", got)
	}
	if got := main.args["x-dead-letter-exchange"]; got != "" {
		t.Fatalf("main queue should dead-letter via the default exchange, got %v", got)
	}
}

// Dead-letter targets are declared before the queues that route to them, so
// a rejected message never targets a queue that does not exist yet.
func TestTopologyFor_DeclarationOrder(t *testing.T) {
	specs := topologyFor("jobs")
	if specs[0].name != "jobs.dlq" {
		t.Fatalf("DLQ must be declared first, got %s", specs[0].name)
	}
	if specs[len(specs)-1].name != "jobs" {
		t.Fatalf("main queue must be declared last, got %s", specs[len(specs)-1].name)
	}
}
