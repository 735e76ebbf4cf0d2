// Package prompts holds the LLM prompt templates used by the planner,
// the summarizer and the chat manager.
package prompts

// ExtractLimit is the number of characters of extracted text embedded in
// summary and extraction prompts.
const ExtractLimit = 2000

const planningTemplate = `Analyze the user's web navigation request and break it down into specific browser actions.
User Request: "%s"

Return a JSON array of actions. Each action MUST have:
- "action": type of action (navigate, click, type, wait, extract, scroll)
- "selector": CSS selector or XPath (REQUIRED for extract actions)
- "value": input value or parameter (if applicable)
- "description": human-readable description

IMPORTANT: For extract actions, ALWAYS include a valid CSS selector.

Example for "search for laptops under 50k":
[
    {
        "action": "navigate",
        "value": "https://www.google.com",
        "description": "Navigate to Google search"
    },
    {
        "action": "type",
        "selector": "textarea[name='q'], input[name='q']",
        "value": "laptops under 50000",
        "description": "Type search query"
    },
    {
        "action": "click",
        "selector": "input[value='Google Search'], button[type='submit']",
        "description": "Click search button"
    },
    {
        "action": "wait",
        "value": "5000",
        "description": "Wait for results to load"
    },
    {
        "action": "extract",
        "selector": ".g, .rc, .tF2Cxc",
        "description": "Extract search results"
    }
]

Return only valid JSON:`

const shoppingSummaryTemplate = `Analyze these product search results for: "%s"

Extracted data:
%s

Please provide a structured summary with:
1. Top 5 products found
2. Prices for each product
3. Key specifications if available
4. Where to buy (store/source)
5. Ratings if available

Format the response clearly with product rankings:`

const generalSummaryTemplate = `Summarize these search results for: "%s"

Search results:
%s

Provide a concise summary focusing on the most relevant information:`

const shoppingExtractionTemplate = `Extract product information from this data and return ONLY valid JSON:

Query: "%s"
Data: %s

Return JSON format:
{
    "query": "original query",
    "products": [
        {
            "name": "product name",
            "price": "price",
            "rating": "rating",
            "store": "store/source",
            "specifications": "key specs"
        }
    ],
    "summary": "brief overall summary"
}

Extract maximum 5 products:`

const generalExtractionTemplate = `Extract key information from this search data and return ONLY valid JSON:

Query: "%s"
Data: %s

Return JSON format:
{
    "query": "original query",
    "results": [
        {
            "title": "result title",
            "description": "key information",
            "source": "source if available",
            "relevance": "relevance score"
        }
    ],
    "summary": "comprehensive summary",
    "key_findings": ["key point 1", "key point 2"]
}

Extract the most important results:`

const chatTemplate = `You are a helpful AI assistant that can also browse the web.

Current conversation context:
%s

User's latest message: %s

Respond helpfully. If the user seems to want information that might require web search, suggest searching for them.
Keep responses concise and friendly.`

// Welcome is the first message of every new conversation.
const Welcome = `🤖 **Web Navigator AI Assistant**

I can help you with:
- Searching the web for information
- Finding products and prices
- Getting latest news and updates
- Researching topics

Just tell me what you'd like me to search for!`
