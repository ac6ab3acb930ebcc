/*
Package domain contains the core domain models for the voltwiz wizard core.

It defines the fundamental entities of the conversational configuration flow,
such as the per-session WorkflowState, the classifier's FlowDecision, and the
structured results produced by the reasoning roles. This package is kept pure
and free of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Session: The durable unit stored per conversation (workflow state + bounded history).
  - WorkflowState: Current wizard step plus the monotonically enriched parameter document.
  - FlowDecision: Which reasoning roles a message needs, and in what order.
  - TurnResponse: The outward payload handed to the transport adapter after a turn.
*/
package domain
