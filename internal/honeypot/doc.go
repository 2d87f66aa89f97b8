// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

/*
Package honeypot accepts raw TCP connections on a set of decoy ports and
turns each one into a models.Capture.

Every accepted connection is an attack: the capture time is taken at
accept, the peer gets an optional banner, at most ReadLimit bytes are read
and discarded under a ReadTimeout deadline, the connection is closed, and
the capture is handed to a Handler. Each connection runs in its own
goroutine so a silent peer never delays the accept loop.

A PortListener is a suture.Service. The Supervisor binds one listener per
port, runs them under a dedicated suture.Supervisor and reports their
state. A listener whose accept loop fails rebinds with a fixed backoff;
after MaxRestarts consecutive failed binds it returns suture.ErrDoNotRestart
and the port is reported as failed while the other ports keep running.

Listener states:

  - listening: accepting connections
  - restarting: between rebind attempts
  - failed: gave up after MaxRestarts
  - stopped: shut down
*/
package honeypot
