package agents

import "fmt"

// ClarificationError is a control-flow signal, not a failure: an agent needs
// missing input before it can produce a result. The orchestrator suspends the
// run and surfaces the question; the sequence resumes at the same stage once
// the caller answers.
type ClarificationError struct {
	Agent    string
	Question string
}

func (e *ClarificationError) Error() string {
	return fmt.Sprintf("%s agent needs clarification: %s", e.Agent, e.Question)
}

// NeedsClarification creates a clarification signal for an agent.
func NeedsClarification(agent, question string) *ClarificationError {
	return &ClarificationError{Agent: agent, Question: question}
}
