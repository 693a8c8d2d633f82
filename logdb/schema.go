// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// create a table for contract events
const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER NOT NULL,
	eventIndex INTEGER NOT NULL,
	time INTEGER NOT NULL,
	clauseID BLOB(32) NOT NULL,
	origin BLOB(20) NOT NULL,
	address BLOB(20) NOT NULL,
	topic0 BLOB(32),
	topic1 BLOB(32),
	topic2 BLOB(32),
	topic3 BLOB(32),
	topic4 BLOB(32),
	data BLOB,
	PRIMARY KEY (seq, eventIndex)
);

CREATE INDEX IF NOT EXISTS eventTimeIndex ON event(time);
CREATE INDEX IF NOT EXISTS eventClauseIndex ON event(clauseID);
CREATE INDEX IF NOT EXISTS eventAddressIndex ON event(address);
CREATE INDEX IF NOT EXISTS eventTopic0Index ON event(topic0);
CREATE INDEX IF NOT EXISTS eventTopic1Index ON event(topic1);
CREATE INDEX IF NOT EXISTS eventTopic2Index ON event(topic2);
CREATE INDEX IF NOT EXISTS eventTopic3Index ON event(topic3);
CREATE INDEX IF NOT EXISTS eventTopic4Index ON event(topic4);
`
