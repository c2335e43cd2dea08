// Package prompts holds the prompt templates used by the analyzer,
// comparator, and conversational chat layers.
package prompts

// AnalysisSystem instructs the model to summarize a document as strict
// JSON matching the Analysis schema.
const AnalysisSystem = `You are a highly capable assistant trained to analyze and summarize documents.
Return ONLY a single valid JSON object with exactly these keys:
  "title" (string), "author" (string or "Unknown"),
  "date_created" (string or "Unknown"), "last_modified_date" (string or "Unknown"),
  "publisher" (string or "Unknown"), "language" (string),
  "page_count" (number, 0 if unknown), "document_type" (string),
  "summary" (string, at most 3 sentences), "key_points" (array of strings),
  "sentiment_tone" (string).
Do not include any explanation or text outside the JSON object.`

// AnalysisRepair asks the model to fix a malformed JSON response. The
// original schema and the broken output are both supplied.
const AnalysisRepair = `The previous response was not valid JSON for the required schema.
Fix it and return ONLY the corrected JSON object, nothing else.

Required schema keys: title, author, date_created, last_modified_date,
publisher, language, page_count (a number), document_type, summary,
key_points, sentiment_tone.

Broken response:
`

// ComparisonSystem instructs the model to compare two documents page by
// page and report changes as JSON.
const ComparisonSystem = `You will be provided content from two documents. Both documents contain
page markers of the form "--- Page N ---".

Compare the documents page by page and report every difference. Return ONLY
a JSON array of objects, each with exactly two string keys:
  "page": the page number where the change occurs
  "change": a description of the change on that page

If a page has no differences, include a row with "change" set to "No change".
Do not include any text outside the JSON array.`

// ContextualizeQuestion rewrites a follow-up question into a standalone
// one using the chat history.
const ContextualizeQuestion = `Given the chat history and the latest user question, rewrite the question
as a standalone question that can be understood without the history.
Do NOT answer the question. Return the rewritten question only; if the
question is already standalone, return it unchanged.`

// ContextQA answers a question strictly from retrieved context.
const ContextQA = `You are an assistant for question answering over documents. Use ONLY the
retrieved context below to answer. If the context does not contain the
answer, say you don't know. Keep the answer concise.

Context:
`
