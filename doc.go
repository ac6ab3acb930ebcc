// Package voltwiz is a conversational configuration engine for MCS-CEV
// charging scenarios. Users describe their scenario in natural language;
// the engine classifies each message, runs the reasoning roles the flow
// calls for, folds extracted data into a durable per-session document, and
// walks the session through a fixed wizard of configuration steps.
//
// The reasoning capability itself is external, reached through the
// ports.ReasoningClient interface. The engine degrades gracefully: a
// failed role call is replaced by a neutral default and the turn still
// completes with a reply.
//
// A minimal embedding:
//
//	wiz, err := voltwiz.New(client)
//	if err != nil {
//		log.Fatal(err)
//	}
//	resp, err := wiz.ProcessMessage(ctx, "", "We have 2 MCS trucks and 4 CEVs")
package voltwiz
