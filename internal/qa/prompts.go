package qa

import (
	"encoding/json"
	"fmt"
)

func translatePrompt(schema, question string) string {
	return fmt.Sprintf(`You are an expert at converting natural language questions into Neo4j Cypher queries.

Here is the graph schema:
%s

Rules:
1. Always return valid Cypher syntax
2. Only use read clauses (MATCH, OPTIONAL MATCH, WHERE, WITH, RETURN, ORDER BY, LIMIT, UNWIND)
3. Include LIMIT clauses for queries that could return many results
4. Status values for accepted papers: 'poster', 'spotlight', 'oral'
5. Use case-insensitive matching for text searches when appropriate
6. Output ONLY the Cypher query. No explanation, no markdown, no code fences.

Example questions and queries:
Q: How many papers were accepted to ICLR 2025?
A: MATCH (p:Paper) WHERE p.conference = 'ICLR' AND p.status IN ['poster', 'spotlight', 'oral'] RETURN count(p) AS accepted_count

Q: Which keywords are most common in ICML accepted papers?
A: MATCH (p:Paper)-[:HAS_KEYWORD]->(k:Keyword) WHERE p.conference = 'ICML' AND p.status IN ['poster', 'spotlight', 'oral'] RETURN k.name AS keyword, count(*) AS count ORDER BY count DESC LIMIT 20

Q: Who are the most prolific authors?
A: MATCH (a:Author)-[:AUTHORED]->(p:Paper) WITH a, count(p) AS paper_count ORDER BY paper_count DESC RETURN a.name AS author, paper_count LIMIT 20

Convert this question to Cypher: %s`, schema, question)
}

func retryPrompt(schema, question, failureReason string) string {
	return translatePrompt(schema, question) + fmt.Sprintf(`

Your previous attempt was rejected: %s.
Produce a corrected read-only Cypher query for the same question. Output only the query.`, failureReason)
}

func answerPrompt(question string, rows []map[string]interface{}) string {
	rowsJSON, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		rowsJSON = []byte("[]")
	}
	return fmt.Sprintf(`You are a helpful assistant for an academic paper database covering ICLR, ICML and NeurIPS 2025.
Answer the question based only on the query results below.
Be concise and accurate. If the results do not contain enough information, say so.
Format your response in Markdown for readability.

Question: %s

Query Results:
%s`, question, rowsJSON)
}

func summaryPrompt(paperTitle, reviewsText string) string {
	return fmt.Sprintf(`You are an expert at analyzing academic paper reviews.

Your task is to summarize the reviews concisely and provide actionable insights.

Guidelines:
1. Focus on the most important points
2. Be objective and balanced
3. Highlight consensus among reviewers
4. Note any disagreements or conflicting opinions

Return JSON with the following keys:
- "overall_sentiment": "positive" | "negative" | "mixed"
- "main_strengths": list of key strengths mentioned (max 5 items)
- "main_weaknesses": list of key weaknesses/concerns (max 5 items)
- "key_questions": list of important questions raised (max 5 items)
- "recommendation": brief recommendation summary
- "summary_text": comprehensive 2-3 sentence summary

Paper: %s

Reviews:
%s`, paperTitle, reviewsText)
}
