/*
 * Leaf
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package version contains the version of the Leaf tools.
*/
package version

/*
VERSION is the version of Leaf
*/
const VERSION = "0.9"

/*
REV is the revision of Leaf
*/
const REV = "1"
