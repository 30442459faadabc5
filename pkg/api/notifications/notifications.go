// ROM Runner Core
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of ROM Runner Core.
//
// ROM Runner Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ROM Runner Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ROM Runner Core.  If not, see <http://www.gnu.org/licenses/>.

package notifications

import (
	"github.com/ZaparooProject/romrunner-core/pkg/api/models"
	"github.com/ZaparooProject/romrunner-core/pkg/destination/scanner"
	"github.com/rs/zerolog/log"
)

// send never blocks; a full queue drops the notification.
func send(ns chan<- models.Notification, method string, payload any) {
	select {
	case ns <- models.Notification{Method: method, Params: payload}:
	default:
		log.Warn().Str("method", method).Msg("notification queue full, dropping notification")
	}
}

func ScanProgress(ns chan<- models.Notification, destID string, p scanner.Progress) {
	send(ns, models.NotificationScanProgress, models.ScanProgressPayload{
		DestinationID: destID,
		Progress:      p,
	})
}

func ScanCompleted(ns chan<- models.Notification, payload models.ScanCompletedPayload) {
	send(ns, models.NotificationScanCompleted, payload)
}
