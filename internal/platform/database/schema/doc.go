// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names every table and column of the forum database so that
// repositories build SQL from one source of truth.
package schema
