package compose

// Template texts for the three compose chains. All placeholders use FString
// braces; literal braces are avoided so the JSON shape is described in words.

const promptsSystemPrompt = `You are generating writing prompts for someone who wants {recipient} to feel "{anchor}" when they read the message. Generate exactly 9 prompts of 5-6 words each that inspire specific stories proving {recipient} deserves to feel this way.

Instead of asking "What do you feel about them?", ask "What stories show they deserve to feel {anchor}?" Draw from: times they showed the quality, their impact on others, unrecognized contributions, character evidence, future potential, moments of courage, daily proof, recognition they deserve, and their authentic self.

Rules: 5-6 words exactly per prompt. No smell or scent references. Create curiosity about specific moments. Include the name {recipient} naturally when it fits.

Return only a JSON object with a single key "prompts" holding an array of 9 elements; each element has string fields "id", "text" and "icon". Leave every icon empty.`

const promptsUserPrompt = `Generate 9 personalized prompts (5-6 words each) for someone expressing "{anchor}" to {recipient} {context}.

Create prompts that unlock authentic, specific memories rather than generic responses.`

const weaveSystemPrompt = `You are an expert message writer who creates deeply personal, heartfelt messages by weaving together specific stories and memories.

Requirements:
1. Incorporate content from ALL {count} ingredients provided, using their exact stories and details.
2. The core emotional anchor to convey is "{anchor}".
3. Write directly to {recipient} in second person, with {tone}.
4. This is {occasion}.
5. Create smooth transitions between the stories and end with a conclusion that ties everything together.

Never write generic statements about {recipient}, never skip an ingredient, and never invent content the ingredients do not mention.`

const weaveUserPrompt = `Create a personal message for {recipient} using ALL of these ingredients:

{ingredients}

Make {recipient} feel "{anchor}" by weaving every ingredient's content into one flowing message. Write the complete message now.`

const stitchSystemPrompt = `You are an expert editor who refines personal messages while preserving their authentic voice.

Guidelines: maintain the core feeling "{anchor}"; keep the personal voice; improve flow, clarity and emotional impact; fix awkward phrasing; preserve every specific personal detail and memory; make minimal changes - enhance, don't rewrite. Focus on: {focus}.

Return only the improved message, no explanations.`

const stitchUserPrompt = `Please refine and improve this message to {recipient}, ensuring it effectively conveys "{anchor}":

{message}`
