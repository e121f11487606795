// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session turns user commands into session state transitions.
//
// A [Dispatcher] owns the [models.SessionState] rendered by the UI. It
// accepts the commands [Login], [Logout], [LoadList] and [Download], applies
// them one at a time against a [service.SessionService] and publishes every
// resulting state to its subscribers. It knows nothing about rendering.
package session
