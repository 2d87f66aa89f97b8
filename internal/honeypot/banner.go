// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package honeypot

// SSHBanner imitates a stock Ubuntu OpenSSH server.
const SSHBanner = "SSH-2.0-OpenSSH_8.2p1 Ubuntu-4ubuntu0.2\r\n"

// defaultBanners holds the greeting written to a peer right after accept.
var defaultBanners = map[int]string{
	22: SSHBanner,
}

// BannerFor returns the greeting for port, or "" when there is none or
// banners are disabled.
func BannerFor(port int, enabled bool) string {
	if !enabled {
		return ""
	}
	return defaultBanners[port]
}
