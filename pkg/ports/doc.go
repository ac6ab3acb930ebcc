/*
Package ports defines the driven ports (interfaces) for the voltwiz core.

These interfaces decouple the core logic from external implementations,
allowing the wizard to work with various session stores and reasoning
backends.

# Key Interfaces

  - SessionStore: Responsible for persisting and loading per-conversation Sessions.
  - DistributedLocker: Provides distributed locking for concurrent session access across replicas.
  - ReasoningClient: The opaque text-in/JSON-out reasoning capability, parameterized by role.
*/
package ports
