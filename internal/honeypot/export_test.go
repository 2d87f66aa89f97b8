// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package honeypot

import "github.com/thejerf/suture/v4"

var errDoNotRestart = suture.ErrDoNotRestart
